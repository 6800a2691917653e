package service

import (
	"context"
	"errors"
	"testing"

	"app/internal/auth"
	"app/internal/model"

	"github.com/rs/zerolog"
)

func newTestUserService(repo *fakeUserRepo) UserService {
	tokens := auth.NewTokenIssuer("test-secret", "meal-arb", "meal-arb-web", 120, 43200)
	return NewUserService(repo, &fakeActivityRepo{}, tokens, zerolog.Nop())
}

func signupParams() SignupParams {
	return SignupParams{
		Email:            "alice@campus.edu",
		Password:         "hunter2hunter2",
		University:       "state",
		TotalMeals:       112,
		ExpiresOn:        "2025-05-20",
		MealDistribution: model.DistributionWeekly,
	}
}

func TestSignupAppliesWeeklyDefault(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())

	u, token, err := svc.Signup(context.Background(), signupParams())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if token == "" {
		t.Error("no token issued")
	}
	// 112 meals over 16 weeks.
	if u.WeeklyMeals != 7 {
		t.Errorf("WeeklyMeals = %d, want 7", u.WeeklyMeals)
	}
	if u.Role != model.RoleMember {
		t.Errorf("Role = %q, want member", u.Role)
	}
}

func TestSignupSemesterPlanKeepsZeroWeekly(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	p := signupParams()
	p.MealDistribution = model.DistributionSemester

	u, _, err := svc.Signup(context.Background(), p)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	// The derived allowance only applies to weekly plans.
	if u.WeeklyMeals != 0 {
		t.Errorf("WeeklyMeals = %d, want 0", u.WeeklyMeals)
	}
}

func TestSignupKeepsExplicitWeeklyMeals(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	p := signupParams()
	p.WeeklyMeals = 12

	u, _, err := svc.Signup(context.Background(), p)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.WeeklyMeals != 12 {
		t.Errorf("WeeklyMeals = %d, want 12", u.WeeklyMeals)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, signupParams()); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, _, err := svc.Signup(ctx, signupParams()); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Errorf("second signup err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestSignupRejectsBadDate(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	p := signupParams()
	p.ExpiresOn = "May 20th"

	if _, _, err := svc.Signup(context.Background(), p); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	ctx := context.Background()
	if _, _, err := svc.Signup(ctx, signupParams()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, token, err := svc.Login(ctx, "alice@campus.edu", "hunter2hunter2", false); err != nil || token == "" {
		t.Errorf("Login = (%q, %v), want token", token, err)
	}

	// Wrong password and unknown account return the same error.
	_, _, badPass := svc.Login(ctx, "alice@campus.edu", "wrong", false)
	_, _, noUser := svc.Login(ctx, "bob@campus.edu", "hunter2hunter2", false)
	if !errors.Is(badPass, ErrInvalidCredentials) || !errors.Is(noUser, ErrInvalidCredentials) {
		t.Errorf("errs = %v / %v, want ErrInvalidCredentials for both", badPass, noUser)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	ctx := context.Background()
	u, _, err := svc.Signup(ctx, signupParams())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if err := svc.ChangePassword(ctx, u.ID, "wrong", "newpassword123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong current err = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "hunter2hunter2", "newpassword123"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@campus.edu", "newpassword123", false); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@campus.edu", "hunter2hunter2", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("login with old password err = %v, want ErrInvalidCredentials", err)
	}
}
