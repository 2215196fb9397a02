package store

import (
	"testing"
	"time"
)

func TestProfileRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:          "test-profile-1",
		Name:        "Racing Game",
		Description: "Profile for racing games",
	}

	// Create the profile
	err := repo.Create(profile)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	// Verify CreatedAt and UpdatedAt are set
	if profile.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}
	if profile.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set after create")
	}

	// Retrieve the profile by ID
	retrieved, err := repo.GetByID("test-profile-1")
	if err != nil {
		t.Fatalf("failed to get profile by ID: %v", err)
	}
	if retrieved.Name != "Racing Game" {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, "Racing Game")
	}
	if retrieved.Description != "Profile for racing games" {
		t.Errorf("Description mismatch: got %q, want %q", retrieved.Description, "Profile for racing games")
	}

	// Retrieve the profile by name
	retrievedByName, err := repo.GetByName("Racing Game")
	if err != nil {
		t.Fatalf("failed to get profile by name: %v", err)
	}
	if retrievedByName.ID != profile.ID {
		t.Errorf("GetByName returned wrong profile: got ID %q, want %q", retrievedByName.ID, profile.ID)
	}
}

func TestProfileRepository_Create_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile1 := &Profile{ID: "test-profile-1", Name: "Racing Game"}
	profile2 := &Profile{ID: "test-profile-2", Name: "Racing Game"}

	if err := repo.Create(profile1); err != nil {
		t.Fatalf("failed to create first profile: %v", err)
	}

	// Creating a second profile with the same name should fail
	if err := repo.Create(profile2); err == nil {
		t.Error("creating profile with duplicate name should fail")
	}
}

func TestProfileRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	names := []string{"Video Player", "General", "Racing Game"}
	for i, name := range names {
		p := &Profile{ID: "profile-" + name, Name: name}
		if err := repo.Create(p); err != nil {
			t.Fatalf("failed to create profile %d: %v", i, err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list profiles: %v", err)
	}

	if len(list) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(list))
	}

	// Ordered by name
	wantOrder := []string{"General", "Racing Game", "Video Player"}
	for i, want := range wantOrder {
		if list[i].Name != want {
			t.Errorf("position %d: got %q, want %q", i, list[i].Name, want)
		}
	}
}

func TestProfileRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{ID: "test-profile-1", Name: "Racing Game"}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	originalUpdatedAt := profile.UpdatedAt

	// Wait a bit to ensure UpdatedAt changes
	time.Sleep(10 * time.Millisecond)

	profile.Name = "Flight Sim"
	profile.Description = "Cockpit controls"
	if err := repo.Update(profile); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}

	retrieved, err := repo.GetByID("test-profile-1")
	if err != nil {
		t.Fatalf("failed to get profile after update: %v", err)
	}
	if retrieved.Name != "Flight Sim" {
		t.Errorf("Name not updated: got %q, want %q", retrieved.Name, "Flight Sim")
	}
	if retrieved.Description != "Cockpit controls" {
		t.Errorf("Description not updated: got %q, want %q", retrieved.Description, "Cockpit controls")
	}
	if !retrieved.UpdatedAt.After(originalUpdatedAt) {
		t.Error("UpdatedAt should be updated after Update")
	}
}

func TestProfileRepository_Update_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{ID: "non-existent-id", Name: "Ghost"}
	err := repo.Update(profile)
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound for non-existent profile, got: %v", err)
	}
}

func TestProfileRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{ID: "test-profile-1", Name: "Racing Game"}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	if err := repo.Delete("test-profile-1"); err != nil {
		t.Fatalf("failed to delete profile: %v", err)
	}

	_, err := repo.GetByID("test-profile-1")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}
}

func TestProfileRepository_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	err := repo.Delete("non-existent-id")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound for non-existent profile, got: %v", err)
	}
}

func TestProfileRepository_Delete_CascadesGestures(t *testing.T) {
	s := newTestStore(t)
	profile := newTestProfile(t, s, "Racing Game")
	gestures := s.Gestures()

	g := &Gesture{
		ID:        "test-gesture-1",
		ProfileID: profile.ID,
		Name:      "accelerate",
		Pattern:   []int{1, 1, 1, 1, 1},
		HandType:  HandTypeSingle,
		Active:    true,
	}
	if err := gestures.Create(g); err != nil {
		t.Fatalf("failed to create gesture: %v", err)
	}

	// Deleting the profile must take its gestures with it
	if err := s.Profiles().Delete(profile.ID); err != nil {
		t.Fatalf("failed to delete profile: %v", err)
	}

	_, err := gestures.GetByID("test-gesture-1")
	if err != ErrNotFound {
		t.Errorf("expected gesture to be cascade-deleted, got: %v", err)
	}
}
