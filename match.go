package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// interestOrder is the fixed category order. It only matters for
// indexing, not priority.
var interestOrder = []string{"activeSports", "technology", "nature", "food", "travel", "pets"}

// interestColumns whitelists the schema column for each interest name.
var interestColumns = map[string]string{
	"activeSports": "active_sports",
	"technology":   "technology",
	"nature":       "nature",
	"food":         "food",
	"travel":       "travel",
	"pets":         "pets",
}

func (u *User) interestFlag(name string) bool {
	switch name {
	case "activeSports":
		return u.ActiveSports
	case "technology":
		return u.Technology
	case "nature":
		return u.Nature
	case "food":
		return u.Food
	case "travel":
		return u.Travel
	case "pets":
		return u.Pets
	}
	return false
}

// setInterests returns the names of the user's set flags in category order.
func (u *User) setInterests() []string {
	var names []string
	for _, name := range interestOrder {
		if u.interestFlag(name) {
			names = append(names, name)
		}
	}
	return names
}

// computeMatch picks one of the user's interests uniformly at random,
// then a uniformly random user sharing it. The requester is part of the
// candidate pool and may be matched with themselves. Returns nil when the
// user has no interests set or nobody holds the selected one.
func computeMatch(u *User, rng *rand.Rand) (*Match, error) {
	interests := u.setInterests()
	if len(interests) == 0 {
		return nil, nil
	}
	interest := interests[rng.Intn(len(interests))]

	candidates, err := getUsersByInterest(interestColumns[interest])
	if err != nil {
		return nil, fmt.Errorf("candidates for %s: %w", interest, err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	return &Match{
		Interest:  interest,
		Requester: u,
		Candidate: candidates[rng.Intn(len(candidates))],
	}, nil
}

// GET /match — compute and render a match for the current user
func matchHandler(w http.ResponseWriter, r *http.Request) {
	user := getCurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	match, err := computeMatch(user, rng)
	if err != nil {
		logrus.WithError(err).WithField("username", user.Username).Error("compute match")
		addFlash(w, r, "Matching is unavailable right now")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	data := map[string]interface{}{
		"current_user": user,
	}
	if match == nil {
		data["no_match"] = true
	} else {
		data["interest"] = match.Interest
		data["candidate"] = match.Candidate
		data["self_match"] = match.Candidate.Username == user.Username
	}
	renderTemplate(w, r, "match.html", data)
}
