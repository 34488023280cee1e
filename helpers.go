package main

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const sessionName = "session"

// --- Session helpers ---

func newStore(secret string) *sessions.CookieStore {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
	}
	return s
}

func getCurrentUser(r *http.Request) *User {
	session, _ := store.Get(r, sessionName)
	username, ok := session.Values["username"].(string)
	if !ok {
		return nil
	}
	u, err := getUserByUsername(username)
	if err != nil {
		return nil
	}
	return u
}

func setSessionUser(w http.ResponseWriter, r *http.Request, username string) {
	session, _ := store.Get(r, sessionName)
	session.Values["username"] = username
	session.Save(r, w)
}

func clearSessionUser(w http.ResponseWriter, r *http.Request) {
	session, _ := store.Get(r, sessionName)
	delete(session.Values, "username")
	session.Save(r, w)
}

func addFlash(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := store.Get(r, sessionName)
	session.AddFlash(message)
	session.Save(r, w)
}

func getFlashes(w http.ResponseWriter, r *http.Request) []interface{} {
	session, _ := store.Get(r, sessionName)
	flashes := session.Flashes()
	session.Save(r, w)
	return flashes
}

// --- Pending meeting selection ---

// setPendingMeeting remembers which meeting the user just clicked, so the
// edit and detail pages can pick it up after the redirect.
func setPendingMeeting(w http.ResponseWriter, r *http.Request, id int64) {
	session, _ := store.Get(r, sessionName)
	session.Values["pending_meeting"] = id
	session.Save(r, w)
}

// takePendingMeeting returns the pending selection and clears it, so a
// selection is consumed by exactly one page load.
func takePendingMeeting(w http.ResponseWriter, r *http.Request) (int64, bool) {
	session, _ := store.Get(r, sessionName)
	id, ok := session.Values["pending_meeting"].(int64)
	delete(session.Values, "pending_meeting")
	session.Save(r, w)
	return id, ok
}

// --- Password helpers ---

func hashPassword(password string) string {
	bytes, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes)
}

func checkPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// --- Template helpers ---

func datetimeformat(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02 @ 15:04")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateFile string, data map[string]interface{}) {
	if _, ok := data["current_user"]; !ok {
		if u := getCurrentUser(r); u != nil {
			data["current_user"] = u
		}
	}
	if _, ok := data["flashes"]; !ok {
		data["flashes"] = getFlashes(w, r)
	}

	tmpl, err := gonja.FromFile("templates/" + templateFile)
	if err != nil {
		logrus.WithError(err).WithField("template", templateFile).Error("parse template")
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, exec.NewContext(data)); err != nil {
		logrus.WithError(err).WithField("template", templateFile).Error("render template")
	}
}
