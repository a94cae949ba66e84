package httpserver

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/robalobadob/flagquiz/internal/game"
)

func playingSnapshot() game.Snapshot {
	return game.Snapshot{
		SessionID:        "s1",
		Phase:            game.PhasePlaying,
		Current:          &game.Country{Name: "France", FlagURL: "https://flagcdn.com/w320/fr.png"},
		Score:            2,
		SecondsRemaining: 41,
		BestScore:        7,
		Ready:            true,
		CatalogSize:      250,
	}
}

func TestBrokerPublish(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(playingSnapshot())

	data := <-ch
	if strings.Contains(string(data), "France") {
		t.Fatalf("published view leaks the country name: %s", data)
	}
	var v stateView
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Phase != "playing" || v.Score != 2 || v.SecondsRemaining != 41 || v.BestScore != 7 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.FlagURL != "https://flagcdn.com/w320/fr.png" {
		t.Fatalf("flag = %q", v.FlagURL)
	}
}

func TestBrokerSlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 100; i++ {
		b.Publish(playingSnapshot())
	}
	if len(ch) != cap(ch) {
		t.Fatalf("expected a full buffer, got %d/%d", len(ch), cap(ch))
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	if b.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", b.Subscribers())
	}
	b.Unsubscribe(ch)
	b.Publish(playingSnapshot())
	if len(ch) != 0 || b.Subscribers() != 0 {
		t.Fatal("unsubscribed channel should receive nothing")
	}
}
