// Package reinvent loads the re:Invent session catalog from a locally placed
// JSON export.
package reinvent

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// The export shows up under a few different casings depending on who
// downloaded it.
var candidateNames = []string{"reinvent.json", "Reinvent.json", "ReInvent.json"}

var (
	ErrCatalogNotFound = errors.New("reinvent catalog file not found")
	ErrCatalogInvalid  = errors.New("reinvent catalog file invalid")
)

// Ref is a referenced catalog entity; depending on the export generation the
// human-readable value is under displayName or displayValue.
type Ref struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	DisplayValue string `json:"displayValue"`
	Value        int    `json:"value"`
}

// Display returns whichever readable value the export carried.
func (r Ref) Display() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.DisplayValue
}

type Speaker struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Company     string `json:"company"`
}

type Session struct {
	ID             string    `json:"id"`
	ShortID        string    `json:"shortId"`
	Title          string    `json:"title"`
	Abstract       string    `json:"abstract"`
	StartDateTime  *string   `json:"startDateTime"`
	EndDateTime    *string   `json:"endDateTime"`
	Speakers       []Speaker `json:"speakers"`
	VenueRoomName  string    `json:"venueRoomName"`
	Day            string    `json:"day"`
	Type           *Ref      `json:"type"`
	Level          *Ref      `json:"level"`
	Services       []Ref     `json:"services"`
	Topics         []Ref     `json:"topics"`
	AreaOfInterest []Ref     `json:"areaOfInterest"`
	Industry       []Ref     `json:"industry"`
	Segment        *Ref      `json:"segment"`
	Role           []Ref     `json:"role"`
	YoutubeURL     string    `json:"youtubeUrl"`
}

type catalogEnvelope struct {
	Catalog []Session `json:"catalog"`
}

// Load reads the catalog from dir, trying each accepted filename casing.
// The file may be either {"catalog": [...]} or a bare array.
func Load(dir string) ([]Session, error) {
	var path string
	for _, name := range candidateNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		return nil, ErrCatalogNotFound
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}

	var envelope catalogEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Catalog != nil {
		return envelope.Catalog, nil
	}

	var sessions []Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, fmt.Errorf("%w: expected array or object with 'catalog' array", ErrCatalogInvalid)
	}
	return sessions, nil
}
