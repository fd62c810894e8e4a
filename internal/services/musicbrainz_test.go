package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/desertthunder/melodex/internal/shared"
	mocks "github.com/desertthunder/melodex/internal/testing"
)

const mbISRCPayload = `{
	"recordings": [
		{
			"id": "b9ad642e-b012-41c7-b72a-42cf4911f9ff",
			"title": "Thunderstruck",
			"length": 292000,
			"releases": [
				{
					"id": "rel-1",
					"title": "The Razors Edge",
					"date": "1990-09-24",
					"label-info": [{"label": {"name": "Albert Productions"}}]
				},
				{
					"id": "rel-2",
					"title": "Later Compilation",
					"date": "2003-01-01"
				}
			],
			"genres": [
				{"name": "hard rock"}, {"name": "rock"}, {"name": "blues rock"},
				{"name": "arena rock"}, {"name": "classic rock"}, {"name": "metal"}
			]
		}
	]
}`

func TestMusicBrainzLookupByISRC(t *testing.T) {
	t.Run("SyntheticIdentifiersNeverHitNetwork", func(t *testing.T) {
		for _, isrc := range []string{"", "dz_12345", "ytm_abcd", "LINK:https://x", "pod_42"} {
			registry := &mocks.MockFetcher{}
			coverArt := &mocks.MockFetcher{}
			svc := NewMusicBrainzService("", registry, coverArt, nil)

			enrichment, err := svc.LookupByISRC(context.Background(), isrc)
			if err != nil {
				t.Errorf("isrc %q: expected nil error, got %v", isrc, err)
			}
			if enrichment != nil {
				t.Errorf("isrc %q: expected nil enrichment, got %+v", isrc, enrichment)
			}
			if len(registry.Calls)+len(coverArt.Calls) != 0 {
				t.Errorf("isrc %q: expected zero network calls", isrc)
			}
		}
	})

	t.Run("FirstReleaseIsAuthoritative", func(t *testing.T) {
		registry := &mocks.MockFetcher{Responses: map[string][]byte{
			"/isrc/AUAP09000013": []byte(mbISRCPayload),
		}}
		coverArt := &mocks.MockFetcher{Responses: map[string][]byte{
			"/release/rel-1": []byte(`{"images": []}`),
		}}
		svc := NewMusicBrainzService("", registry, coverArt, nil)

		enrichment, err := svc.LookupByISRC(context.Background(), "AUAP09000013")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if enrichment == nil {
			t.Fatal("expected enrichment")
		}
		if enrichment.ReleaseDate != "1990-09-24" {
			t.Errorf("expected first release date, got %s", enrichment.ReleaseDate)
		}
		if enrichment.ReleaseID != "rel-1" {
			t.Errorf("expected first release id, got %s", enrichment.ReleaseID)
		}
		if enrichment.Label != "Albert Productions" {
			t.Errorf("expected first label, got %s", enrichment.Label)
		}
		if len(enrichment.Genres) != maxGenres {
			t.Errorf("expected genres capped at %d, got %d", maxGenres, len(enrichment.Genres))
		}
	})

	t.Run("NoReleasesMeansNoEnrichment", func(t *testing.T) {
		registry := &mocks.MockFetcher{Responses: map[string][]byte{
			"/isrc/USUM71703861": []byte(`{"recordings": [{"id": "r-1", "title": "Orphan", "releases": []}]}`),
		}}
		svc := NewMusicBrainzService("", registry, &mocks.MockFetcher{}, nil)

		enrichment, err := svc.LookupByISRC(context.Background(), "USUM71703861")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if enrichment != nil {
			t.Errorf("expected nil enrichment for release-less recording, got %+v", enrichment)
		}
	})

	t.Run("RegistryMissIsAbsence", func(t *testing.T) {
		registry := &mocks.MockFetcher{Errs: map[string]error{
			"/isrc/GBAYE0601498": fmt.Errorf("%w: registry miss", shared.ErrNotFound),
		}}
		svc := NewMusicBrainzService("", registry, &mocks.MockFetcher{}, nil)

		enrichment, err := svc.LookupByISRC(context.Background(), "GBAYE0601498")
		if err != nil {
			t.Fatalf("expected miss to be absence, got %v", err)
		}
		if enrichment != nil {
			t.Errorf("expected nil enrichment, got %+v", enrichment)
		}
	})

	t.Run("CoverArtFailureDoesNotPoisonEnrichment", func(t *testing.T) {
		registry := &mocks.MockFetcher{Responses: map[string][]byte{
			"/isrc/AUAP09000013": []byte(mbISRCPayload),
		}}
		coverArt := &mocks.MockFetcher{Err: fmt.Errorf("%w: cover art archive down", shared.ErrProviderUnavailable)}
		svc := NewMusicBrainzService("", registry, coverArt, nil)

		enrichment, err := svc.LookupByISRC(context.Background(), "AUAP09000013")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if enrichment == nil || enrichment.CoverArtURL != "" {
			t.Errorf("expected enrichment without cover art, got %+v", enrichment)
		}
	})
}

func TestMusicBrainzLookupRecording(t *testing.T) {
	registry := &mocks.MockFetcher{Responses: map[string][]byte{
		"/recording/b9ad642e-b012-41c7-b72a-42cf4911f9ff": []byte(`{
			"id": "b9ad642e-b012-41c7-b72a-42cf4911f9ff",
			"title": "Thunderstruck",
			"length": 292000,
			"artist-credit": [{"name": "AC/DC"}],
			"releases": [{"id": "rel-1", "title": "The Razors Edge", "date": "1990-09-24"}],
			"genres": [{"name": "hard rock"}]
		}`),
	}}
	coverArt := &mocks.MockFetcher{Responses: map[string][]byte{
		"/release/rel-1": []byte(`{"images": [
			{"front": true, "image": "https://caa/full.jpg", "thumbnails": {"500": "https://caa/500.jpg", "large": "https://caa/large.jpg"}}
		]}`),
	}}
	svc := NewMusicBrainzService("", registry, coverArt, nil)

	track, err := svc.LookupRecording(context.Background(), "b9ad642e-b012-41c7-b72a-42cf4911f9ff")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if track.ID != "mb_b9ad642e-b012-41c7-b72a-42cf4911f9ff" {
		t.Errorf("expected namespaced id, got %s", track.ID)
	}
	if track.Artists != "AC/DC" {
		t.Errorf("expected credited artist, got %s", track.Artists)
	}
	if track.Album != "The Razors Edge" || track.ReleaseDate != "1990-09-24" {
		t.Errorf("expected first release fields, got %q %q", track.Album, track.ReleaseDate)
	}
	if track.Duration != "4:52" {
		t.Errorf("expected 4:52, got %s", track.Duration)
	}
	if track.AlbumArt != "https://caa/500.jpg" {
		t.Errorf("expected 500px front thumbnail, got %s", track.AlbumArt)
	}

	t.Run("EmptyMBIDRejected", func(t *testing.T) {
		if _, err := svc.LookupRecording(context.Background(), ""); err == nil {
			t.Error("expected error for empty mbid")
		}
	})
}

func TestPickCoverArt(t *testing.T) {
	front := func(size500, large, image string) CAAImage {
		img := CAAImage{Front: true, Image: image}
		img.Thumbnails.Size500 = size500
		img.Thumbnails.Large = large
		return img
	}

	cases := []struct {
		name   string
		images []CAAImage
		want   string
	}{
		{"Prefers500Thumbnail", []CAAImage{front("https://caa/500.jpg", "https://caa/large.jpg", "https://caa/full.jpg")}, "https://caa/500.jpg"},
		{"FallsBackToLarge", []CAAImage{front("", "https://caa/large.jpg", "https://caa/full.jpg")}, "https://caa/large.jpg"},
		{"FallsBackToFullImage", []CAAImage{front("", "", "https://caa/full.jpg")}, "https://caa/full.jpg"},
		{"NoFrontTakesFirst", []CAAImage{{Front: false, Image: "https://caa/back.jpg"}}, "https://caa/back.jpg"},
		{"EmptyArchive", nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pickCoverArt(tc.images); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
