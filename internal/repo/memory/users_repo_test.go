package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mkurali/userhub/internal/domain/user"
)

func mkUser(id, email, role string, createdAt time.Time) user.User {
	return user.User{
		ID:        id,
		FirstName: "First",
		LastName:  "Last",
		Email:     user.NormalizeEmail(email),
		Role:      role,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	if _, err := repo.Create(ctx, mkUser("u1", "a@example.com", user.RoleUser, time.Now())); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := repo.Create(ctx, mkUser("u2", "a@example.com", user.RoleUser, time.Now()))
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestListOrderAndPaging(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		u := mkUser(fmt.Sprintf("u%d", i), fmt.Sprintf("u%d@example.com", i), user.RoleUser, base.Add(time.Duration(i)*time.Hour))
		if _, err := repo.Create(ctx, u); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, total, err := repo.List(ctx, user.ListFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}

	if len(got) != 2 || got[0].ID != "u4" || got[1].ID != "u3" {
		t.Fatalf("page = %v, want newest first [u4 u3]", ids(got))
	}

	// past the end still reports the real total
	got, total, err = repo.List(ctx, user.ListFilter{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(got) != 0 || total != 5 {
		t.Fatalf("past-end page = %v total = %d", ids(got), total)
	}
}

func TestListRoleFilter(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	repo.Create(ctx, mkUser("a1", "a1@example.com", user.RoleAdmin, now))
	repo.Create(ctx, mkUser("u1", "u1@example.com", user.RoleUser, now.Add(time.Minute)))

	got, total, err := repo.List(ctx, user.ListFilter{Role: user.RoleAdmin, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if total != 1 || len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("got %v total %d, want exactly [a1]", ids(got), total)
	}
}

func TestEmailInUseExcludesSelf(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	repo.Create(ctx, mkUser("u1", "a@example.com", user.RoleUser, time.Now()))

	inUse, err := repo.EmailInUse(ctx, "A@Example.com", "u1")
	if err != nil {
		t.Fatalf("emailInUse: %v", err)
	}
	if inUse {
		t.Fatal("own email must not count as taken")
	}

	inUse, err = repo.EmailInUse(ctx, "a@example.com", "someone-else")
	if err != nil {
		t.Fatalf("emailInUse: %v", err)
	}
	if !inUse {
		t.Fatal("expected email to be reported in use")
	}
}

func TestUpdate(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	repo.Create(ctx, mkUser("u1", "a@example.com", user.RoleUser, time.Now()))
	repo.Create(ctx, mkUser("u2", "b@example.com", user.RoleUser, time.Now()))

	newFirst := "Grace"
	updated, err := repo.Update(ctx, "u1", user.UpdateUserRequest{FirstName: &newFirst})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Grace" {
		t.Fatalf("firstName = %q", updated.FirstName)
	}

	taken := "b@example.com"
	_, err = repo.Update(ctx, "u1", user.UpdateUserRequest{Email: &taken})
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}

	_, err = repo.Update(ctx, "missing", user.UpdateUserRequest{FirstName: &newFirst})
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	repo.Create(ctx, mkUser("u1", "a@example.com", user.RoleUser, time.Now()))

	if err := repo.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := repo.Delete(ctx, "u1"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func ids(users []user.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}
