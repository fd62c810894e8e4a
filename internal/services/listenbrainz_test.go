package services

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/shared"
	mocks "github.com/desertthunder/melodex/internal/testing"
)

func TestBuildListenPayload(t *testing.T) {
	t.Run("JoinsArtistNames", func(t *testing.T) {
		track := models.Track{
			Name:        "Duet",
			Artists:     "ignored when names present",
			ArtistNames: []string{"First", "Second"},
		}

		payload := buildListenPayload(track, 0)
		if payload.TrackMetadata.ArtistName != "First, Second" {
			t.Errorf("expected joined artist names, got %q", payload.TrackMetadata.ArtistName)
		}
	})

	t.Run("FallsBackToDisplayArtist", func(t *testing.T) {
		track := models.Track{Name: "Solo", Artists: "Single Artist"}

		payload := buildListenPayload(track, 0)
		if payload.TrackMetadata.ArtistName != "Single Artist" {
			t.Errorf("expected display artist, got %q", payload.TrackMetadata.ArtistName)
		}
	})

	t.Run("PopulatedAdditionalInfo", func(t *testing.T) {
		track := models.Track{
			Name:        "Full",
			Artists:     "Act",
			Album:       "The Album",
			DurationMS:  185000,
			ISRC:        "USUM71703861",
			TrackNumber: 4,
		}

		info := buildListenPayload(track, 0).TrackMetadata.AdditionalInfo
		if info == nil {
			t.Fatal("expected additional_info to be populated")
		}
		if info["duration_ms"] != 185000 {
			t.Errorf("expected duration_ms 185000, got %v", info["duration_ms"])
		}
		if info["release_name"] != "The Album" {
			t.Errorf("expected release_name, got %v", info["release_name"])
		}
		if info["isrc"] != "USUM71703861" {
			t.Errorf("expected isrc, got %v", info["isrc"])
		}
		if info["tracknumber"] != 4 {
			t.Errorf("expected tracknumber 4, got %v", info["tracknumber"])
		}
	})

	t.Run("EmptyAdditionalInfoOmitted", func(t *testing.T) {
		track := models.Track{Name: "Bare", Artists: "Act"}

		if info := buildListenPayload(track, 0).TrackMetadata.AdditionalInfo; info != nil {
			t.Errorf("expected nil additional_info, got %v", info)
		}
	})

	t.Run("SyntheticISRCNeverForwarded", func(t *testing.T) {
		for _, isrc := range []string{"dz_12345", "ytm_abcd", "LINK:https://x", "pod_99"} {
			track := models.Track{Name: "T", Artists: "A", ISRC: isrc}
			info := buildListenPayload(track, 0).TrackMetadata.AdditionalInfo
			if info != nil {
				if _, ok := info["isrc"]; ok {
					t.Errorf("synthetic isrc %q forwarded upstream", isrc)
				}
			}
		}
	})

	t.Run("UnknownTrackName", func(t *testing.T) {
		payload := buildListenPayload(models.Track{Artists: "A"}, 0)
		if payload.TrackMetadata.TrackName != "Unknown" {
			t.Errorf("expected Unknown fallback, got %q", payload.TrackMetadata.TrackName)
		}
	})
}

func TestListenBrainzSubmit(t *testing.T) {
	track := models.Track{Name: "Ambient Dawn", Artists: "Nightdrive", DurationMS: 185000}

	t.Run("MissingTokenShortCircuits", func(t *testing.T) {
		fetcher := &mocks.MockFetcher{}
		svc := NewListenBrainzService("", fetcher, nil)

		err := svc.SubmitListen(context.Background(), track, 0)
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected missing-config error, got %v", err)
		}
		if len(fetcher.Calls) != 0 {
			t.Errorf("expected no network calls, got %d", len(fetcher.Calls))
		}
	})

	t.Run("SubmitListenPostsPayload", func(t *testing.T) {
		fetcher := &mocks.MockFetcher{Responses: map[string][]byte{
			"/1/submit-listens": []byte(`{"status": "ok"}`),
		}}
		svc := NewListenBrainzService("token-1", fetcher, nil)

		if err := svc.SubmitListen(context.Background(), track, 1700000000); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		submission, ok := fetcher.Calls[0].Body.(ListenSubmission)
		if !ok {
			t.Fatalf("unexpected body type %T", fetcher.Calls[0].Body)
		}
		if submission.ListenType != "single" {
			t.Errorf("expected listen_type single, got %s", submission.ListenType)
		}
		if submission.Payload[0].ListenedAt != 1700000000 {
			t.Errorf("expected explicit listened_at, got %d", submission.Payload[0].ListenedAt)
		}
	})

	t.Run("NowPlayingOmitsListenedAt", func(t *testing.T) {
		fetcher := &mocks.MockFetcher{Responses: map[string][]byte{
			"/1/submit-listens": []byte(`{"status": "ok"}`),
		}}
		svc := NewListenBrainzService("token-1", fetcher, nil)

		if err := svc.SubmitNowPlaying(context.Background(), track); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		submission := fetcher.Calls[0].Body.(ListenSubmission)
		if submission.ListenType != "playing_now" {
			t.Errorf("expected playing_now, got %s", submission.ListenType)
		}
		if submission.Payload[0].ListenedAt != 0 {
			t.Errorf("expected zero listened_at for now playing, got %d", submission.Payload[0].ListenedAt)
		}
	})
}

func TestListenBrainzReads(t *testing.T) {
	t.Run("RecommendationMBIDs", func(t *testing.T) {
		fetcher := &mocks.MockFetcher{Responses: map[string][]byte{
			"/1/cf/recommendation/recording/listener": []byte(`{"payload": {"mbids": [
				{"recording_mbid": "aaa-111"},
				{"recording_mbid": ""},
				{"recording_mbid": "bbb-222"}
			]}}`),
		}}
		svc := NewListenBrainzService("", fetcher, nil)

		mbids, err := svc.GetRecommendationMBIDs(context.Background(), "listener", 25)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(mbids) != 2 {
			t.Fatalf("expected empty mbid skipped, got %v", mbids)
		}
		if mbids[0] != "aaa-111" || mbids[1] != "bbb-222" {
			t.Errorf("unexpected mbids %v", mbids)
		}
	})

	t.Run("UserListens", func(t *testing.T) {
		fetcher := &mocks.MockFetcher{Responses: map[string][]byte{
			"/1/user/listener/listens": []byte(`{"payload": {"listens": [
				{"listened_at": 1700000000, "track_metadata": {"track_name": "Ambient Dawn", "artist_name": "Nightdrive"}}
			]}}`),
		}}
		svc := NewListenBrainzService("", fetcher, nil)

		listens, err := svc.GetUserListens(context.Background(), "listener", 25)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(listens) != 1 {
			t.Fatalf("expected 1 listen, got %d", len(listens))
		}
		if listens[0].TrackName != "Ambient Dawn" || listens[0].Source != "listenbrainz" {
			t.Errorf("unexpected listen %+v", listens[0])
		}
	})

	t.Run("ValidateToken", func(t *testing.T) {
		fetcher := &mocks.MockFetcher{Responses: map[string][]byte{
			"/1/validate-token": []byte(`{"valid": true, "user_name": "listener"}`),
		}}
		svc := NewListenBrainzService("token-1", fetcher, nil)

		username, err := svc.ValidateToken(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if username != "listener" {
			t.Errorf("expected listener, got %s", username)
		}
	})

	t.Run("ValidateTokenRejected", func(t *testing.T) {
		fetcher := &mocks.MockFetcher{Responses: map[string][]byte{
			"/1/validate-token": []byte(`{"valid": false}`),
		}}
		svc := NewListenBrainzService("token-1", fetcher, nil)

		if _, err := svc.ValidateToken(context.Background()); err == nil {
			t.Error("expected error for rejected token")
		}
	})
}
