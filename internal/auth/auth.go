package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"syscall"

	"github.com/isaacjstriker/notris/internal/database"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var (
	// ErrInvalidCredentials hides whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrValidation wraps every rejected registration field.
	ErrValidation = errors.New("invalid registration")
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	numberPattern   = regexp.MustCompile(`[0-9]`)
)

// UserStore is the part of the database the account flows need.
type UserStore interface {
	CreateUser(username, email, passwordHash string) (*database.User, error)
	GetUserByUsername(username string) (*database.User, string, error)
	TouchLastLogin(userID int) error
}

var stdin = bufio.NewReader(os.Stdin)

// ReadInput reads a line of input from the user
func ReadInput(prompt string) (string, error) {
	return readLine(stdin, os.Stdout, prompt)
}

func readLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	input, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadPassword reads a password without echoing it to the terminal
func ReadPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return string(bytePassword), nil
}

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 50 {
		return fmt.Errorf("username must be no more than 50 characters long")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}
	return nil
}

func ValidateEmail(email string) error {
	if len(email) == 0 {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword requires 8 to 128 characters with a letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must be no more than 128 characters long")
	}
	if !letterPattern.MatchString(password) {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !numberPattern.MatchString(password) {
		return fmt.Errorf("password must contain at least one number")
	}
	return nil
}

// Register validates the fields, hashes the password and stores the account.
func Register(store UserStore, username, email, password string) (*database.User, error) {
	for _, err := range []error{ValidateUsername(username), ValidateEmail(email), ValidatePassword(password)} {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return store.CreateUser(username, email, hash)
}

// Authenticate checks a username and password pair and records the login.
func Authenticate(store UserStore, username, password string) (*database.User, error) {
	user, hash, err := store.GetUserByUsername(username)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(password, hash) {
		return nil, ErrInvalidCredentials
	}

	if err := store.TouchLastLogin(user.ID); err != nil {
		return nil, err
	}
	return user, nil
}
