package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// POST /meetingCreate — open a fresh meetup owned by the caller and jump
// straight to its edit form.
func meetingCreateHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	id, err := insertMeeting(&Meeting{
		Username1:   user.Username,
		Date:        "TBD",
		Description: "Describe your meetup",
	})
	if err != nil {
		logrus.WithError(err).Error("insert meeting")
		addFlash(w, r, "Could not create the meetup")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	setPendingMeeting(w, r, id)
	http.Redirect(w, r, "/meeting_edit", http.StatusFound)
}

// POST /matchCreate — like meetingCreate, but pre-filled from a match
// result: the candidate is already the joiner and the description names
// the shared interest.
func matchCreateHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	interest := r.FormValue("interest")
	id, err := insertMeeting(&Meeting{
		Username1:   user.Username,
		Username2:   r.FormValue("username2"),
		Date:        "TBD",
		Description: fmt.Sprintf("Meetup over a shared interest in %s", interest),
	})
	if err != nil {
		logrus.WithError(err).Error("insert match meeting")
		addFlash(w, r, "Could not create the meetup")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	setPendingMeeting(w, r, id)
	http.Redirect(w, r, "/meeting_edit", http.StatusFound)
}

// selectMeeting stores the clicked meeting id as the pending selection
// and sends the browser on to the page that will consume it.
func selectMeeting(w http.ResponseWriter, r *http.Request, target string) {
	if getCurrentUser(r) == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	id, err := strconv.ParseInt(r.FormValue("_id"), 10, 64)
	if err != nil {
		addFlash(w, r, "That meetup no longer exists")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	setPendingMeeting(w, r, id)
	http.Redirect(w, r, target, http.StatusFound)
}

// POST /meetingView
func meetingViewHandler(w http.ResponseWriter, r *http.Request) {
	selectMeeting(w, r, "/meetup")
}

// POST /meetingEdit
func meetingEditHandler(w http.ResponseWriter, r *http.Request) {
	selectMeeting(w, r, "/meeting_edit")
}

// loadPendingMeeting consumes the pending selection and resolves it to a
// meeting row. Any miss ends in a safe redirect to the dashboard.
func loadPendingMeeting(w http.ResponseWriter, r *http.Request) *Meeting {
	id, ok := takePendingMeeting(w, r)
	if !ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return nil
	}

	m, err := getMeetingByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			addFlash(w, r, "That meetup no longer exists")
		} else {
			logrus.WithError(err).WithField("meeting_id", id).Error("load meeting")
			addFlash(w, r, "Could not load the meetup")
		}
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return nil
	}
	return m
}

// GET /meeting_edit — edit form for the pending selection
func meetingEditPageHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	m := loadPendingMeeting(w, r)
	if m == nil {
		return
	}

	renderTemplate(w, r, "meeting_edit.html", map[string]interface{}{
		"current_user": user,
		"meeting":      m,
	})
}

// GET /meetup — detail view for the pending selection. Looks up the
// profile name of the creator, and of the joiner when one is set.
func meetupHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	m := loadPendingMeeting(w, r)
	if m == nil {
		return
	}

	name1, err := getProfileName(m.Username1)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logrus.WithError(err).Error("look up creator name")
			addFlash(w, r, "Could not load the meetup")
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		name1 = m.Username1
	}

	name2 := ""
	if m.Username2 != "" {
		name2, err = getProfileName(m.Username2)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				logrus.WithError(err).Error("look up joiner name")
				addFlash(w, r, "Could not load the meetup")
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
			name2 = m.Username2
		}
	}

	renderTemplate(w, r, "meetup.html", map[string]interface{}{
		"current_user": user,
		"meeting":      m,
		"name1":        name1,
		"name2":        name2,
	})
}

// POST /updateMeeting — full overwrite of every field from the form
func updateMeetingHandler(w http.ResponseWriter, r *http.Request) {
	if getCurrentUser(r) == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	id, err := strconv.ParseInt(r.FormValue("_id"), 10, 64)
	if err != nil {
		addFlash(w, r, "That meetup no longer exists")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	m := &Meeting{
		MeetingID:   id,
		Type:        r.FormValue("type"),
		Username1:   r.FormValue("username1"),
		Username2:   r.FormValue("username2"),
		Date:        r.FormValue("date"),
		Description: r.FormValue("description"),
	}
	if err := updateMeeting(m); err != nil {
		logrus.WithError(err).WithField("meeting_id", id).Error("update meeting")
		addFlash(w, r, "Could not update the meetup")
	} else {
		addFlash(w, r, "Meetup updated")
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// POST /deleteMeeting
func deleteMeetingHandler(w http.ResponseWriter, r *http.Request) {
	if getCurrentUser(r) == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	id, err := strconv.ParseInt(r.FormValue("_id"), 10, 64)
	if err != nil {
		addFlash(w, r, "That meetup no longer exists")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	if err := deleteMeeting(id); err != nil {
		logrus.WithError(err).WithField("meeting_id", id).Error("delete meeting")
		addFlash(w, r, "Could not delete the meetup")
	} else {
		addFlash(w, r, "Meetup deleted")
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// POST /meetingJoin — set the joiner. Joining an already joined meetup
// replaces the previous joiner, matching the legacy behavior.
func meetingJoinHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	id, err := strconv.ParseInt(r.FormValue("_id"), 10, 64)
	if err != nil {
		addFlash(w, r, "That meetup no longer exists")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	joiner := r.FormValue("username2")
	if joiner == "" {
		joiner = user.Username
	}
	if err := joinMeeting(id, joiner); err != nil {
		logrus.WithError(err).WithField("meeting_id", id).Error("join meeting")
		addFlash(w, r, "Could not join the meetup")
	} else {
		addFlash(w, r, "You joined the meetup")
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
