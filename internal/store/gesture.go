package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// HandType represents how many hands a pattern describes.
type HandType string

const (
	// HandTypeSingle represents a pattern recorded from one hand.
	HandTypeSingle HandType = "single"
	// HandTypeBoth represents a combined pattern recorded from both hands.
	HandTypeBoth HandType = "both"
)

// Gesture represents a custom gesture stored within a profile.
type Gesture struct {
	ID              string
	ProfileID       string
	Name            string
	Pattern         []int
	HandType        HandType
	Description     string
	KeyBinding      string
	Active          bool
	Position        int
	RecordedSamples int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GestureRepository provides CRUD operations for gestures.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

const gestureColumns = `id, profile_id, name, pattern, hand_type, description,
	key_binding, active, position, recorded_samples, created_at, updated_at`

// scanGesture reads one gesture row through the Scan signature shared by
// sql.Row and sql.Rows.
func scanGesture(scan func(dest ...any) error) (*Gesture, error) {
	g := &Gesture{}
	var pattern, handType string
	var active int

	err := scan(
		&g.ID, &g.ProfileID, &g.Name, &pattern, &handType, &g.Description,
		&g.KeyBinding, &active, &g.Position, &g.RecordedSamples,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(pattern), &g.Pattern); err != nil {
		return nil, fmt.Errorf("decode pattern for gesture %s: %w", g.ID, err)
	}

	g.HandType = HandType(handType)
	g.Active = active != 0
	return g, nil
}

// Create inserts a new gesture into the database. A zero Position is
// replaced with the next free slot in the profile.
func (r *GestureRepository) Create(g *Gesture) error {
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	pattern, err := json.Marshal(g.Pattern)
	if err != nil {
		return fmt.Errorf("encode pattern: %w", err)
	}

	if g.Position == 0 {
		err := r.db.QueryRow(
			`SELECT COALESCE(MAX(position), 0) + 1 FROM gestures WHERE profile_id = ?`,
			g.ProfileID,
		).Scan(&g.Position)
		if err != nil {
			return err
		}
	}

	active := 0
	if g.Active {
		active = 1
	}

	_, err = r.db.Exec(
		`INSERT INTO gestures (id, profile_id, name, pattern, hand_type, description,
			key_binding, active, position, recorded_samples, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.ProfileID, g.Name, string(pattern), string(g.HandType), g.Description,
		g.KeyBinding, active, g.Position, g.RecordedSamples, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a gesture by its ID.
func (r *GestureRepository) GetByID(id string) (*Gesture, error) {
	row := r.db.QueryRow(
		`SELECT `+gestureColumns+` FROM gestures WHERE id = ?`,
		id,
	)

	g, err := scanGesture(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return g, nil
}

// GetByName retrieves a gesture by name within a profile.
func (r *GestureRepository) GetByName(profileID, name string) (*Gesture, error) {
	row := r.db.QueryRow(
		`SELECT `+gestureColumns+` FROM gestures WHERE profile_id = ? AND name = ?`,
		profileID, name,
	)

	g, err := scanGesture(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return g, nil
}

// ListByProfile retrieves all gestures in a profile ordered by position.
func (r *GestureRepository) ListByProfile(profileID string) ([]*Gesture, error) {
	rows, err := r.db.Query(
		`SELECT `+gestureColumns+` FROM gestures WHERE profile_id = ? ORDER BY position`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gestures []*Gesture
	for rows.Next() {
		g, err := scanGesture(rows.Scan)
		if err != nil {
			return nil, err
		}
		gestures = append(gestures, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gestures, nil
}

// Update updates an existing gesture in the database.
func (r *GestureRepository) Update(g *Gesture) error {
	g.UpdatedAt = time.Now()

	pattern, err := json.Marshal(g.Pattern)
	if err != nil {
		return fmt.Errorf("encode pattern: %w", err)
	}

	active := 0
	if g.Active {
		active = 1
	}

	result, err := r.db.Exec(
		`UPDATE gestures SET name = ?, pattern = ?, hand_type = ?, description = ?,
			key_binding = ?, active = ?, position = ?, recorded_samples = ?, updated_at = ?
		 WHERE id = ?`,
		g.Name, string(pattern), string(g.HandType), g.Description,
		g.KeyBinding, active, g.Position, g.RecordedSamples, g.UpdatedAt, g.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetActive toggles whether a gesture participates in recognition.
func (r *GestureRepository) SetActive(id string, active bool) error {
	value := 0
	if active {
		value = 1
	}

	result, err := r.db.Exec(
		`UPDATE gestures SET active = ?, updated_at = ? WHERE id = ?`,
		value, time.Now(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a gesture from the database by its ID.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
