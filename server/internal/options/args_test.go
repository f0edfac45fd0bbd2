package options

import (
	"slices"
	"testing"
)

func TestBuildArgsVideo(t *testing.T) {
	args, err := BuildArgs(Request{
		Links:       []string{"https://youtu.be/a", "https://youtu.be/b"},
		Media:       MediaVideo,
		Options:     Default(),
		Destination: "/tmp/dl",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"https://youtu.be/a", "https://youtu.be/b",
		"-S", "res:1080",
		"--remux-video", "mp4",
		"--break-on-reject",
		"--match-filter", "!playlist",
		"--no-playlist",
		"-P", "/tmp/dl",
		"-o", "%(title)s.%(ext)s",
	}

	if !slices.Equal(args, want) {
		t.Fatalf("got %q\nwant %q", args, want)
	}
}

func TestBuildArgsAudioPlaylist(t *testing.T) {
	opts := Default()
	opts.AudioFormat = AudioOpus
	opts.AudioQuality = QualityLow
	opts.SponsorBlock = SponsorBlockMark
	opts.CookiesFile = "/home/me/cookies.txt"

	args, err := BuildArgs(Request{
		Links:       []string{"https://youtube.com/playlist?list=PL1"},
		Media:       MediaAudio,
		Options:     opts,
		Playlist:    true,
		Destination: "/music",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"https://youtube.com/playlist?list=PL1",
		"-x",
		"--audio-format", "opus",
		"--audio-quality", "6",
		"--yes-playlist",
		"-P", "/music",
		"-o", "%(playlist)s/%(title)s.%(ext)s",
		"--sponsorblock-mark=default",
		"--cookies", "/home/me/cookies.txt",
	}

	if !slices.Equal(args, want) {
		t.Fatalf("got %q\nwant %q", args, want)
	}
}

func TestBuildArgsPlaylistFlagsAreExclusive(t *testing.T) {
	for _, playlist := range []bool{true, false} {
		for _, media := range []Media{MediaVideo, MediaAudio} {
			args, err := BuildArgs(Request{
				Links:       []string{"https://example.com/v"},
				Media:       media,
				Options:     Default(),
				Playlist:    playlist,
				Destination: ".",
			})
			if err != nil {
				t.Fatal(err)
			}

			hasExclusion := slices.Contains(args, "--no-playlist")
			hasTemplate := slices.Contains(args, playlistOutput)

			if playlist && (hasExclusion || !hasTemplate) {
				t.Errorf("playlist=%v media=%s: %q", playlist, media, args)
			}
			if !playlist && (!hasExclusion || hasTemplate) {
				t.Errorf("playlist=%v media=%s: %q", playlist, media, args)
			}
		}
	}
}

func TestBuildArgsSponsorBlockRemove(t *testing.T) {
	opts := Default()
	opts.SponsorBlock = SponsorBlockRemove

	args, err := BuildArgs(Request{
		Links:       []string{"https://example.com/v"},
		Media:       MediaVideo,
		Options:     opts,
		Destination: ".",
	})
	if err != nil {
		t.Fatal(err)
	}

	if args[len(args)-1] != "--sponsorblock-remove=default" {
		t.Fatalf("sponsorblock flag must follow the playlist block: %q", args)
	}
}

func TestBuildArgsQualityLevels(t *testing.T) {
	levels := map[AudioQuality]string{
		QualityBest:   "0",
		QualityGood:   "2",
		QualityMedium: "4",
		QualityLow:    "6",
	}

	for q, want := range levels {
		opts := Default()
		opts.AudioQuality = q

		args, err := BuildArgs(Request{
			Links:       []string{"https://example.com/v"},
			Media:       MediaAudio,
			Options:     opts,
			Destination: ".",
		})
		if err != nil {
			t.Fatal(err)
		}

		i := slices.Index(args, "--audio-quality")
		if i < 0 || args[i+1] != want {
			t.Errorf("%s: got %q", q, args)
		}
	}
}

func TestBuildArgsRejectsInvalid(t *testing.T) {
	bad := Default()
	bad.VideoResolution = "8k"

	tests := []struct {
		name string
		req  Request
	}{
		{"no links", Request{Media: MediaVideo, Options: Default(), Destination: "."}},
		{"no destination", Request{Links: []string{"https://a.b"}, Media: MediaVideo, Options: Default()}},
		{"unknown media", Request{Links: []string{"https://a.b"}, Media: "podcast", Options: Default(), Destination: "."}},
		{"unknown resolution", Request{Links: []string{"https://a.b"}, Media: MediaVideo, Options: bad, Destination: "."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildArgs(tt.req); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestSummary(t *testing.T) {
	o := Default()

	if got := o.Summary(MediaVideo); got != "1080p:mp4" {
		t.Errorf("video summary %q", got)
	}
	if got := o.Summary(MediaAudio); got != "good:mp3" {
		t.Errorf("audio summary %q", got)
	}
}
