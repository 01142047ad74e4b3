package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/store"
)

type fakeAuthProvider struct {
	session *store.AuthSession
}

func (f *fakeAuthProvider) SignIn(ctx context.Context, email, password string) (*store.AuthSession, error) {
	if password != "secret" {
		return nil, errors.New("invalid credentials")
	}
	f.session = &store.AuthSession{
		Token:     "token",
		UserID:    "u1",
		Email:     email,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return f.session, nil
}

func (f *fakeAuthProvider) SignUp(ctx context.Context, email, password string, data map[string]string) (*store.AuthSession, error) {
	return f.SignIn(ctx, email, password)
}

func (f *fakeAuthProvider) SignOut(ctx context.Context, session *store.AuthSession) error {
	f.session = nil
	return nil
}

func (f *fakeAuthProvider) CurrentSession(ctx context.Context) (*store.AuthSession, error) {
	return f.session, nil
}

type fakeProfileLoader struct{}

func (fakeProfileLoader) LoadProfile(ctx context.Context, userID string) (*models.User, error) {
	return &models.User{ID: userID, FirstName: "Test", LastName: "User", Role: models.RoleStudent}, nil
}

type fakeCourseBackend struct{}

func (fakeCourseBackend) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return []*models.Course{{ID: 1, Title: "Intro to Go", Category: "programming"}}, nil
}

func (fakeCourseBackend) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	return &models.Course{ID: id, Title: "Intro to Go"}, nil
}

func (fakeCourseBackend) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	return course, nil
}

func (fakeCourseBackend) UpdateCourse(ctx context.Context, id uint, updates *models.Course) (*models.Course, error) {
	return updates, nil
}

func (fakeCourseBackend) DeleteCourse(ctx context.Context, id uint) error {
	return nil
}

func (fakeCourseBackend) Enroll(ctx context.Context, courseID uint, studentID string) (*models.Enrollment, error) {
	return &models.Enrollment{ID: 1, CourseID: courseID, StudentID: studentID}, nil
}

func (fakeCourseBackend) ListEnrolledCourses(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error) {
	return nil, nil
}

func setup(t *testing.T) *commandLine {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := store.NewSessionStore(&fakeAuthProvider{}, fakeProfileLoader{}, logger)
	sessions.Initialize(context.Background())

	return &commandLine{
		sessions: sessions,
		courses:  store.NewCourseStore(fakeCourseBackend{}, logger),
		guard:    store.NewRouteGuard(sessions),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "signin: no email", args: []string{"signin"}, wantErr: errHelp},
		{name: "signin: email but no password", args: []string{"signin", "-email", "a@test.cd"}, wantErr: errHelp},
		{name: "signin: bad password", args: []string{"signin", "-email", "a@test.cd"}, pwd: "nope", wantErrStr: "sign in failed: invalid credentials"},
		{name: "courses without session", args: []string{"courses"}},
		{name: "whoami without session", args: []string{"whoami"}, wantErrStr: "not signed in; run 'adminctl signin' first"},
		{name: "mycourses without session", args: []string{"mycourses"}, wantErrStr: "not signed in; run 'adminctl signin' first"},
		{name: "enroll: no course", args: []string{"enroll"}, wantErr: errHelp},
		{name: "enroll without session", args: []string{"enroll", "-course", "1"}, wantErrStr: "not signed in; run 'adminctl signin' first"},
		{name: "signin", args: []string{"signin", "-email", "a@test.cd"}, pwd: "secret"},
	}
	for _, tt := range tests {
		cli := setup(t)
		args := append([]string{"adminctl"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(context.Background(), args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			} else if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}
}

func Test_commandLine_sessionCommands(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte("secret"), nil
	}

	if err := cli.run(ctx, []string{"adminctl", "signin", "-email", "a@test.cd"}); err != nil {
		t.Fatalf("signin failed: %v", err)
	}
	if !cli.sessions.IsAuthenticated() {
		t.Fatal("expected authenticated session after signin")
	}

	if err := cli.run(ctx, []string{"adminctl", "whoami"}); err != nil {
		t.Errorf("whoami failed: %v", err)
	}
	if err := cli.run(ctx, []string{"adminctl", "mycourses"}); err != nil {
		t.Errorf("mycourses failed: %v", err)
	}
	if err := cli.run(ctx, []string{"adminctl", "enroll", "-course", "1"}); err != nil {
		t.Errorf("enroll failed: %v", err)
	}

	// a student must not reach admin commands
	err := cli.run(ctx, []string{"adminctl", "createuser", "-email", "b@test.cd", "-first", "B", "-last", "C"})
	if err == nil {
		t.Error("expected role error for createuser as student")
	}

	if err := cli.run(ctx, []string{"adminctl", "signout"}); err != nil {
		t.Errorf("signout failed: %v", err)
	}
	if cli.sessions.IsAuthenticated() {
		t.Error("expected anonymous session after signout")
	}
}
