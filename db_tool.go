//go:build ignore

package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const dbToolDoc = `OceanMeet Database Tool

Usage:
  db_tool -m            Dump all meetups to STDOUT.
  db_tool -c            Dump all chat messages to STDOUT.
  db_tool <meeting_id>...
                        Delete the given meetups.
  db_tool -h            Show this screen.`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(dbToolDoc)
		return
	}

	path := os.Getenv("DATABASE")
	if path == "" {
		path = "/tmp/oceanmeet.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't open database: %s\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch os.Args[1] {
	case "-h":
		fmt.Println(dbToolDoc)
	case "-m":
		rows, err := db.Query("SELECT meeting_id, type, username1, username2, date FROM meeting")
		if err != nil {
			fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			var typ, u1, u2, date string
			rows.Scan(&id, &typ, &u1, &u2, &date)
			fmt.Printf("%d,%s,%s,%s,%s\n", id, typ, u1, u2, date)
		}
	case "-c":
		rows, err := db.Query("SELECT message_id, author, text, pub_date FROM message")
		if err != nil {
			fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var id, pubDate int64
			var author, text string
			rows.Scan(&id, &author, &text, &pubDate)
			fmt.Printf("%d,%s,%s,%d\n", id, author, text, pubDate)
		}
	default:
		for _, arg := range os.Args[1:] {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid meeting ID: %s\n", arg)
				continue
			}
			_, err = db.Exec("DELETE FROM meeting WHERE meeting_id = ?", id)
			if err != nil {
				fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
			} else {
				fmt.Printf("Deleted meetup: %d\n", id)
			}
		}
	}
}
