package auth

import (
	"errors"
	"fmt"

	"github.com/isaacjstriker/notris/internal/database"
	"github.com/isaacjstriker/notris/ui"
)

// CLIAuth handles authentication through the CLI
type CLIAuth struct {
	store   UserStore
	session *SessionManager
}

func NewCLIAuth(store UserStore, session *SessionManager) *CLIAuth {
	return &CLIAuth{store: store, session: session}
}

func (a *CLIAuth) Session() *SessionManager {
	return a.session
}

func pause() {
	fmt.Println("Press Enter to continue...")
	fmt.Scanln()
}

// ShowAuthMenu loops over the account menu until the player goes back.
func (a *CLIAuth) ShowAuthMenu() {
	for {
		var items []ui.MenuItem
		if a.session.IsLoggedIn() {
			items = []ui.MenuItem{
				{Label: "Switch Account", Value: "switch"},
				{Label: "Logout", Value: "logout"},
				{Label: "Back to Main Menu", Value: "back"},
			}
		} else {
			items = []ui.MenuItem{
				{Label: "Login", Value: "login"},
				{Label: "Register New Account", Value: "register"},
				{Label: "Back to Main Menu", Value: "back"},
			}
		}

		menu := ui.NewMenu("Account", items)
		menu.Subtitle = a.session.GetUserInfo()

		switch menu.Show() {
		case "login":
			a.handleLogin()
		case "register":
			a.handleRegister()
		case "switch":
			if err := a.session.ClearSession(); err != nil {
				fmt.Printf("Error clearing session: %v\n", err)
			}
			a.handleLogin()
		case "logout":
			a.handleLogout()
		default:
			return
		}
	}
}

func (a *CLIAuth) handleLogin() {
	fmt.Println("\nLogin to Your Account")
	fmt.Println("=====================")

	username, err := ReadInput("Username: ")
	if err != nil {
		fmt.Printf("Error reading username: %v\n", err)
		return
	}
	password, err := ReadPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	user, err := Authenticate(a.store, username, password)
	if err != nil {
		fmt.Printf("Login failed: %v\n", err)
		pause()
		return
	}

	if err := a.session.SaveSession(user.ID, user.Username, user.Email); err != nil {
		fmt.Printf("Error saving session: %v\n", err)
		return
	}

	fmt.Printf("Welcome back, %s!\n", user.Username)
	pause()
}

func (a *CLIAuth) handleRegister() {
	fmt.Println("\nCreate New Account")
	fmt.Println("==================")

	username, err := ReadInput("Username (3-50 characters): ")
	if err != nil {
		fmt.Printf("Error reading username: %v\n", err)
		return
	}
	email, err := ReadInput("Email: ")
	if err != nil {
		fmt.Printf("Error reading email: %v\n", err)
		return
	}
	password, err := ReadPassword("Password (8+ characters, letters and numbers): ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	confirm, err := ReadPassword("Confirm Password: ")
	if err != nil {
		fmt.Printf("Error reading confirmation: %v\n", err)
		return
	}
	if password != confirm {
		fmt.Println("Passwords do not match")
		pause()
		return
	}

	user, err := Register(a.store, username, email, password)
	if errors.Is(err, database.ErrDuplicate) {
		fmt.Println("Username or email is already taken")
		pause()
		return
	}
	if err != nil {
		fmt.Printf("Failed to create account: %v\n", err)
		pause()
		return
	}

	if err := a.session.SaveSession(user.ID, user.Username, user.Email); err != nil {
		fmt.Printf("Error saving session: %v\n", err)
		return
	}

	fmt.Printf("Account created successfully! Welcome, %s!\n", user.Username)
	pause()
}

func (a *CLIAuth) handleLogout() {
	var username string
	if s := a.session.GetCurrentSession(); s != nil {
		username = s.Username
	}

	if err := a.session.ClearSession(); err != nil {
		fmt.Printf("Error clearing session: %v\n", err)
		return
	}

	if username != "" {
		fmt.Printf("Goodbye, %s! You have been logged out.\n", username)
	} else {
		fmt.Println("You have been logged out.")
	}
	pause()
}
