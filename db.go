package main

import (
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/mattn/go-sqlite3"
)

var errUsernameTaken = errors.New("username is already taken")

func openDB(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", path)
}

// initDB opens the database and applies schema.sql. The schema only uses
// CREATE TABLE IF NOT EXISTS, so applying it on every start is harmless.
func initDB(path string) error {
	var err error
	db, err = openDB(path)
	if err != nil {
		return err
	}
	schema, err := os.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(schema))
	return err
}

// --- Users ---

const userColumns = `user_id, username, pw_hash, name, age, city, description,
	active_sports, technology, nature, food, travel, pets`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(&u.UserID, &u.Username, &u.PwHash, &u.Name, &u.Age, &u.City, &u.Description,
		&u.ActiveSports, &u.Technology, &u.Nature, &u.Food, &u.Travel, &u.Pets)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func getUserByUsername(username string) (*User, error) {
	return scanUser(db.QueryRow("SELECT "+userColumns+" FROM user WHERE username = ?", username))
}

func createUser(username, pwHash string) error {
	_, err := db.Exec("INSERT INTO user (username, pw_hash) VALUES (?, ?)", username, pwHash)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return errUsernameTaken
	}
	return err
}

// updateUserProfile overwrites every profile field and interest flag of
// the row matching u.Username. Last write wins; there is no versioning.
func updateUserProfile(u *User) error {
	_, err := db.Exec(`
		UPDATE user SET name = ?, age = ?, city = ?, description = ?,
			active_sports = ?, technology = ?, nature = ?, food = ?, travel = ?, pets = ?
		WHERE username = ?`,
		u.Name, u.Age, u.City, u.Description,
		u.ActiveSports, u.Technology, u.Nature, u.Food, u.Travel, u.Pets,
		u.Username)
	return err
}

// getProfileName returns the display name of a user, used by the meetup
// detail view.
func getProfileName(username string) (string, error) {
	var name string
	err := db.QueryRow("SELECT name FROM user WHERE username = ?", username).Scan(&name)
	return name, err
}

func getUsersByInterest(column string) ([]*User, error) {
	// column comes from the interestColumns whitelist, never from a request
	rows, err := db.Query("SELECT " + userColumns + " FROM user WHERE " + column + " = 1 ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- Meetings ---

func insertMeeting(m *Meeting) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO meeting (type, username1, username2, date, description)
		VALUES (?, ?, ?, ?, ?)`,
		m.Type, m.Username1, m.Username2, m.Date, m.Description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func getMeetingByID(id int64) (*Meeting, error) {
	var m Meeting
	err := db.QueryRow(`
		SELECT meeting_id, type, username1, username2, date, description
		FROM meeting WHERE meeting_id = ?`, id).
		Scan(&m.MeetingID, &m.Type, &m.Username1, &m.Username2, &m.Date, &m.Description)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func listMeetings() ([]Meeting, error) {
	rows, err := db.Query(`
		SELECT meeting_id, type, username1, username2, date, description
		FROM meeting ORDER BY meeting_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.MeetingID, &m.Type, &m.Username1, &m.Username2, &m.Date, &m.Description); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func updateMeeting(m *Meeting) error {
	_, err := db.Exec(`
		UPDATE meeting SET type = ?, username1 = ?, username2 = ?, date = ?, description = ?
		WHERE meeting_id = ?`,
		m.Type, m.Username1, m.Username2, m.Date, m.Description, m.MeetingID)
	return err
}

// joinMeeting sets username2 and nothing else. A second join silently
// replaces the previous joiner.
func joinMeeting(id int64, joiner string) error {
	_, err := db.Exec("UPDATE meeting SET username2 = ? WHERE meeting_id = ?", joiner, id)
	return err
}

func deleteMeeting(id int64) error {
	_, err := db.Exec("DELETE FROM meeting WHERE meeting_id = ?", id)
	return err
}

// --- Messages ---

// insertMessage stores a chat message with a store-assigned id and the
// current time. Callers never supply identifiers.
func insertMessage(author, text string) error {
	_, err := db.Exec("INSERT INTO message (author, text, pub_date) VALUES (?, ?, ?)",
		author, text, time.Now().Unix())
	return err
}

func listMessages() ([]Message, error) {
	rows, err := db.Query("SELECT message_id, author, text, pub_date FROM message ORDER BY message_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.MessageID, &m.Author, &m.Text, &m.PubDate); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
