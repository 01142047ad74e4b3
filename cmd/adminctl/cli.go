package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/services"
	"github.com/SAP-F-2025/learning-platform/internal/store"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	sessions *store.SessionStore
	courses  *store.CourseStore
	guard    *store.RouteGuard
	admin    services.UserAdminService
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  signin -email EMAIL             - sign in; the password is prompted next")
	fmt.Println("  signout                         - revoke the current session")
	fmt.Println("  whoami                          - show the signed-in profile")
	fmt.Println("  courses                         - list the published course catalog")
	fmt.Println("  mycourses                       - list the signed-in student's enrollments")
	fmt.Println("  enroll -course ID               - enroll in a course")
	fmt.Println("  createuser -email EMAIL -first NAME -last NAME -role ROLE - provision an account")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	signInCmd := flag.NewFlagSet("signin", flag.ExitOnError)
	signInEmail := signInCmd.String("email", "", "The account email. The password will be prompted next.")

	enrollCmd := flag.NewFlagSet("enroll", flag.ExitOnError)
	enrollCourse := enrollCmd.Uint("course", 0, "The course ID to enroll in.")

	createUserCmd := flag.NewFlagSet("createuser", flag.ExitOnError)
	createUserEmail := createUserCmd.String("email", "", "The new account's email.")
	createUserFirst := createUserCmd.String("first", "", "First name.")
	createUserLast := createUserCmd.String("last", "", "Last name.")
	createUserRole := createUserCmd.String("role", "student", "Role: student, teacher or admin.")

	switch args[1] {
	case "signin":
		if err := signInCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *signInEmail == "" {
			signInCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			signInCmd.Usage()
			return errHelp
		}
		return cli.signIn(ctx, *signInEmail, string(pwd))

	case "signout":
		return cli.signOut(ctx)

	case "whoami":
		return cli.whoAmI()

	case "courses":
		return cli.listCourses(ctx)

	case "mycourses":
		return cli.listMyCourses(ctx)

	case "enroll":
		if err := enrollCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *enrollCourse == 0 {
			enrollCmd.Usage()
			return errHelp
		}
		return cli.enroll(ctx, uint(*enrollCourse))

	case "createuser":
		if err := createUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createUserEmail == "" || *createUserFirst == "" || *createUserLast == "" {
			createUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			createUserCmd.Usage()
			return errHelp
		}
		return cli.createUser(ctx, *createUserEmail, string(pwd), *createUserFirst, *createUserLast, *createUserRole)

	default:
		cli.printUsage()
		return errHelp
	}
}

// requireAccess mirrors the web client's route gating: the same guard that
// decides whether a page renders decides whether a command may run
func (cli *commandLine) requireAccess(req store.RouteRequirement) error {
	switch cli.guard.Decide(req) {
	case store.DecisionRedirectSignIn:
		return errors.New("not signed in; run 'adminctl signin' first")
	case store.DecisionRedirectHome:
		return fmt.Errorf("role %q does not have access to this command", cli.sessions.Role())
	case store.DecisionShowLoading:
		return errors.New("session state is still loading")
	default:
		return nil
	}
}

func (cli *commandLine) signIn(ctx context.Context, email, password string) error {
	result := cli.sessions.SignIn(ctx, email, password)
	if !result.Success {
		return fmt.Errorf("sign in failed: %w", result.Err)
	}
	if profile := result.Data; profile != nil {
		fmt.Printf("Signed in as %s (%s)\n", profile.FullName(), profile.Role)
	} else {
		fmt.Println("Signed in; profile not yet available")
	}
	return nil
}

func (cli *commandLine) signOut(ctx context.Context) error {
	if result := cli.sessions.SignOut(ctx); !result.Success {
		return fmt.Errorf("sign out failed: %w", result.Err)
	}
	fmt.Println("Signed out")
	return nil
}

func (cli *commandLine) whoAmI() error {
	if err := cli.requireAccess(store.RouteRequirement{RequireAuth: true}); err != nil {
		return err
	}
	session := cli.sessions.Session()
	fmt.Printf("User ID: %s\nEmail:   %s\n", session.UserID, session.Email)
	if profile := cli.sessions.Profile(); profile != nil {
		fmt.Printf("Name:    %s\nRole:    %s\n", profile.FullName(), profile.Role)
	}
	return nil
}

func (cli *commandLine) listCourses(ctx context.Context) error {
	// Catalog browsing is public; no guard requirement
	result := cli.courses.FetchCourses(ctx)
	if !result.Success {
		return fmt.Errorf("failed to fetch courses: %w", result.Err)
	}
	for _, course := range result.Data {
		fmt.Printf("%4d  %-40s %-20s %s\n", course.ID, course.Title, course.Category, course.Difficulty)
	}
	fmt.Printf("%d courses\n", len(result.Data))
	return nil
}

func (cli *commandLine) listMyCourses(ctx context.Context) error {
	if err := cli.requireAccess(store.RouteRequirement{RequireAuth: true}); err != nil {
		return err
	}
	result := cli.courses.FetchUserCourses(ctx, cli.sessions.Session().UserID)
	if !result.Success {
		return fmt.Errorf("failed to fetch enrollments: %w", result.Err)
	}
	for _, enrolled := range result.Data {
		fmt.Printf("%4d  %-40s enrolled %s\n", enrolled.Course.ID, enrolled.Course.Title,
			enrolled.Enrollment.EnrolledAt.Format("2006-01-02"))
	}
	fmt.Printf("%d enrollments\n", len(result.Data))
	return nil
}

func (cli *commandLine) enroll(ctx context.Context, courseID uint) error {
	if err := cli.requireAccess(store.RouteRequirement{RequireAuth: true}); err != nil {
		return err
	}
	result := cli.courses.EnrollCourse(ctx, courseID, cli.sessions.Session().UserID)
	if !result.Success {
		return fmt.Errorf("enrollment failed: %w", result.Err)
	}
	fmt.Printf("Enrolled in course %d\n", courseID)
	return nil
}

func (cli *commandLine) createUser(ctx context.Context, email, password, firstName, lastName, role string) error {
	if err := cli.requireAccess(store.RouteRequirement{
		RequireAuth:  true,
		AllowedRoles: []models.UserRole{models.RoleAdmin},
	}); err != nil {
		return err
	}

	req := &services.CreateUserRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.UserRole(role),
	}
	user, err := cli.admin.CreateUser(ctx, req, cli.sessions.Session().UserID, "local")
	if err != nil {
		return fmt.Errorf("user creation failed: %w", err)
	}
	fmt.Printf("Created %s account %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}
