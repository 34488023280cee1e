package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

var (
	db    *sql.DB
	store *sessions.CookieStore
)

func setupRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", rootHandler).Methods("GET")
	r.HandleFunc("/login", loginPageHandler).Methods("GET")
	r.HandleFunc("/register", registerHandler).Methods("POST")
	r.HandleFunc("/login", loginHandler).Methods("POST")
	r.HandleFunc("/logout", logoutHandler).Methods("GET")

	r.HandleFunc("/dashboard", dashboardHandler).Methods("GET")
	r.HandleFunc("/profile", profileHandler).Methods("GET")
	r.HandleFunc("/viewprofile", viewProfileHandler).Methods("POST")
	r.HandleFunc("/updateProfile", updateProfileHandler).Methods("POST")

	r.HandleFunc("/messaging", messagingHandler).Methods("GET")
	r.HandleFunc("/send", sendHandler).Methods("POST")

	r.HandleFunc("/match", matchHandler).Methods("GET")
	r.HandleFunc("/matchCreate", matchCreateHandler).Methods("POST")

	r.HandleFunc("/meetingCreate", meetingCreateHandler).Methods("POST")
	r.HandleFunc("/meetingView", meetingViewHandler).Methods("POST")
	r.HandleFunc("/meetingEdit", meetingEditHandler).Methods("POST")
	r.HandleFunc("/meeting_edit", meetingEditPageHandler).Methods("GET")
	r.HandleFunc("/meetup", meetupHandler).Methods("GET")
	r.HandleFunc("/updateMeeting", updateMeetingHandler).Methods("POST")
	r.HandleFunc("/deleteMeeting", deleteMeetingHandler).Methods("POST")
	r.HandleFunc("/meetingJoin", meetingJoinHandler).Methods("POST")

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	r.Use(loggingMiddleware)
	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"took":   time.Since(start),
		}).Info("request")
	})
}

func main() {
	cfg := loadConfig()

	if err := initDB(cfg.Database); err != nil {
		logrus.WithError(err).Fatal("open database")
	}
	store = newStore(cfg.SessionSecret)

	logrus.WithField("addr", cfg.Addr).Info("listening")
	logrus.Fatal(http.ListenAndServe(cfg.Addr, setupRouter()))
}
