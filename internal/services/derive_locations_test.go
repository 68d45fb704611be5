package services

import (
	"math"
	"testing"

	"trip-map-service/internal/domain"
)

func twoDayItinerary() domain.Itinerary {
	return domain.Itinerary{
		Destination: "Paris",
		Summary:     "Two days of classics",
		Days: []domain.Day{
			{
				Day:   1,
				Title: "Landmarks",
				Activities: []domain.Activity{
					{Time: "09:00", Description: "Morning visit", Location: "Eiffel Tower"},
					{Time: "14:00", Description: "Afternoon galleries", Location: "Louvre Museum"},
				},
			},
			{
				Day:   2,
				Title: "Repeat favourites",
				Activities: []domain.Activity{
					{Time: "10:00", Description: "Second look", Location: "Eiffel Tower"},
					{Time: "15:00", Description: "Second visit", Location: "Louvre Museum"},
				},
			},
		},
	}
}

func TestDeriveLocationsOrderAndIdentity(t *testing.T) {
	placed := DeriveLocations(twoDayItinerary(), paris)

	if len(placed) != 4 {
		t.Fatalf("expected 4 placed locations, got %d", len(placed))
	}

	wantIDs := []string{"0-0", "0-1", "1-0", "1-1"}
	for i, want := range wantIDs {
		if placed[i].ID != want {
			t.Fatalf("placed[%d].ID = %q, want %q", i, placed[i].ID, want)
		}
	}

	if placed[0].Day != 1 || placed[2].Day != 2 {
		t.Fatalf("day badges wrong: %d, %d", placed[0].Day, placed[2].Day)
	}
	if placed[1].Location != "Louvre Museum" {
		t.Fatalf("source order not preserved: placed[1] = %q", placed[1].Location)
	}
}

func TestDeriveLocationsClusterAndDistinctness(t *testing.T) {
	placed := DeriveLocations(twoDayItinerary(), paris)

	// All four positions stay within baseSpread*2.5 degrees of the center
	// and no two coincide, even though the location names repeat.
	const bound = baseSpread * 2.5
	for _, p := range placed {
		if math.Abs(p.Position.Lat-paris.Lat) > bound || math.Abs(p.Position.Lng-paris.Lng) > bound {
			t.Fatalf("placement %s strayed from center: %+v", p.ID, p.Position)
		}
	}

	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			if placed[i].Position == placed[j].Position {
				t.Fatalf("placements %s and %s coincide at %+v", placed[i].ID, placed[j].ID, placed[i].Position)
			}
		}
	}
}

func TestDeriveLocationsRecomputesWholesale(t *testing.T) {
	itin := twoDayItinerary()

	first := DeriveLocations(itin, paris)
	tokyo := domain.Coordinate{Lat: 35.6764, Lng: 139.6500}
	second := DeriveLocations(itin, tokyo)

	if len(first) != len(second) {
		t.Fatalf("recompute changed cardinality: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("recompute changed identity at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
		if first[i].Position == second[i].Position {
			t.Fatalf("placement %s did not follow the center", first[i].ID)
		}
	}
}

func TestDeriveLocationsEmptyItinerary(t *testing.T) {
	placed := DeriveLocations(domain.Itinerary{Destination: "Nowhere"}, paris)
	if len(placed) != 0 {
		t.Fatalf("expected no placements, got %d", len(placed))
	}
}
