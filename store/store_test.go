package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-mclib/scanner/mcstatus"
	"github.com/go-mclib/scanner/store"
)

func openTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddThenAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0).UTC()

	rec := store.ServerRecord{
		IP:      "1.2.3.4",
		Port:    "25565",
		License: 1,
		Status: mcstatus.Status{
			VersionName:   "1.20.4",
			Protocol:      765,
			Description:   "Hi",
			PlayersOnline: 3,
			PlayersMax:    20,
		},
		FirstSeen: now,
		LastSeen:  now,
	}

	if err := s.Add(ctx, rec); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("All() returned %d records, want 1", len(all))
	}
	if all[0].IP != rec.IP || all[0].License != 1 || all[0].Status.Description != "Hi" {
		t.Errorf("got %+v", all[0])
	}
}

func TestAddIsUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0).UTC()
	later := now.Add(time.Hour)

	base := store.ServerRecord{
		IP: "1.2.3.4", Port: "25565", License: 0,
		Status:    mcstatus.Status{PlayersOnline: 1, PlayersMax: 10},
		FirstSeen: now, LastSeen: now,
	}
	if err := s.Add(ctx, base); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}

	updated := base
	updated.License = 1
	updated.Status.PlayersOnline = 5
	updated.LastSeen = later
	if err := s.Add(ctx, updated); err != nil {
		t.Fatalf("second Add() error = %v", err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("All() returned %d records, want 1 (upsert, not insert)", len(all))
	}
	if all[0].License != 1 || all[0].Status.PlayersOnline != 5 {
		t.Errorf("got %+v, want the updated fields", all[0])
	}
}

func TestUpdateMergesPlayersAdditively(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0).UTC()

	rec := store.ServerRecord{
		IP: "1.2.3.4", Port: "25565", License: 0,
		Status:    mcstatus.Status{PlayersOnline: 1, PlayersMax: 10},
		Players:   []json.RawMessage{json.RawMessage(`{"name":"alice"}`)},
		FirstSeen: now, LastSeen: now,
	}
	if err := s.Add(ctx, rec); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	newSamples := []json.RawMessage{
		json.RawMessage(`{"name":"alice"}`), // duplicate, must not double up
		json.RawMessage(`{"name":"bob"}`),
	}
	if err := s.Update(ctx, rec.IP, mcstatus.Status{PlayersOnline: 2, PlayersMax: 10}, now.Add(time.Minute), newSamples); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all[0].Players) != 2 {
		t.Fatalf("Players = %v, want 2 unique entries", all[0].Players)
	}
}

func TestUpdateUnknownIPFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	err := s.Update(ctx, "9.9.9.9", mcstatus.Status{}, time.Now(), nil)
	if err == nil {
		t.Fatal("want error updating a record that was never added")
	}
}
