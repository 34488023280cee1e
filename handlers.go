package main

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// GET / — landing page with the login and register forms
func rootHandler(w http.ResponseWriter, r *http.Request) {
	if getCurrentUser(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	renderTemplate(w, r, "login.html", map[string]interface{}{})
}

// GET /login — same entry page, kept as its own route
func loginPageHandler(w http.ResponseWriter, r *http.Request) {
	rootHandler(w, r)
}

// profileFromForm reads every profile field and interest checkbox from
// the submitted form. Unchecked boxes are simply absent.
func profileFromForm(r *http.Request, username string) *User {
	return &User{
		Username:     username,
		Name:         r.FormValue("name"),
		Age:          r.FormValue("age"),
		City:         r.FormValue("city"),
		Description:  r.FormValue("description"),
		ActiveSports: r.FormValue("activeSports") == "on",
		Technology:   r.FormValue("technology") == "on",
		Nature:       r.FormValue("nature") == "on",
		Food:         r.FormValue("food") == "on",
		Travel:       r.FormValue("travel") == "on",
		Pets:         r.FormValue("pets") == "on",
	}
}

// POST /register — create the credential row, then overwrite the profile
// fields from the same form. The two steps are not atomic.
func registerHandler(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" {
		addFlash(w, r, "You have to enter a username")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if password == "" {
		addFlash(w, r, "You have to enter a password")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := createUser(username, hashPassword(password)); err != nil {
		if err == errUsernameTaken {
			addFlash(w, r, "The username is already taken")
		} else {
			logrus.WithError(err).WithField("username", username).Error("register user")
			addFlash(w, r, "Registration failed, please try again")
		}
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := updateUserProfile(profileFromForm(r, username)); err != nil {
		logrus.WithError(err).WithField("username", username).Error("set profile on register")
	}

	setSessionUser(w, r, username)
	addFlash(w, r, "Welcome to OceanMeet")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// POST /login
func loginHandler(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	u, err := getUserByUsername(username)
	if err != nil {
		addFlash(w, r, "Invalid username")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if !checkPassword(u.PwHash, password) {
		addFlash(w, r, "Invalid password")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	setSessionUser(w, r, u.Username)
	addFlash(w, r, "You were logged in")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// GET /logout
func logoutHandler(w http.ResponseWriter, r *http.Request) {
	clearSessionUser(w, r)
	addFlash(w, r, "You were logged out")
	http.Redirect(w, r, "/", http.StatusFound)
}

// GET /dashboard — all meetups
func dashboardHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	meetings, err := listMeetings()
	if err != nil {
		logrus.WithError(err).Error("list meetings")
		addFlash(w, r, "Could not load meetups")
	}

	renderTemplate(w, r, "dashboard.html", map[string]interface{}{
		"current_user": user,
		"meetings":     meetings,
	})
}

// GET /profile — own profile form
func profileHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	renderTemplate(w, r, "profile.html", map[string]interface{}{
		"current_user": user,
		"profile":      user,
	})
}

// POST /viewprofile — look at another user's profile
func viewProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	target, err := getUserByUsername(r.FormValue("username"))
	if err != nil {
		addFlash(w, r, "No such user")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	renderTemplate(w, r, "viewprofile.html", map[string]interface{}{
		"current_user": user,
		"profile":      target,
	})
}

// POST /updateProfile — overwrite all profile fields and interest flags.
// The target username comes from the form, matching the legacy behavior.
func updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	username := r.FormValue("username")
	if username == "" {
		username = user.Username
	}
	if err := updateUserProfile(profileFromForm(r, username)); err != nil {
		logrus.WithError(err).WithField("username", username).Error("update profile")
		addFlash(w, r, "Could not update the profile")
	} else {
		addFlash(w, r, "Profile updated")
	}
	http.Redirect(w, r, "/profile", http.StatusFound)
}

type messageView struct {
	Author string
	Text   string
	When   string
}

// GET /messaging — the whole chat, oldest first
func messagingHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	messages, err := listMessages()
	if err != nil {
		logrus.WithError(err).Error("list messages")
		addFlash(w, r, "Could not load messages")
	}

	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, messageView{
			Author: m.Author,
			Text:   m.Text,
			When:   datetimeformat(m.PubDate),
		})
	}

	renderTemplate(w, r, "messaging.html", map[string]interface{}{
		"current_user": user,
		"messages":     views,
	})
}

// POST /send — insert a chat message. The legacy form still submits a
// client-side counter ("messagelength"); ids are store-assigned, so it
// is accepted and ignored.
func sendHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if text := r.FormValue("input"); text != "" {
		if err := insertMessage(user.Username, text); err != nil {
			logrus.WithError(err).Error("insert message")
			addFlash(w, r, "Could not send the message")
		}
	}
	http.Redirect(w, r, "/messaging", http.StatusFound)
}
