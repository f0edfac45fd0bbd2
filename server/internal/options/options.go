package options

import "fmt"

type Media string

const (
	MediaVideo Media = "video"
	MediaAudio Media = "audio"
)

type VideoResolution string

const (
	Resolution4K    VideoResolution = "4k"
	Resolution1440p VideoResolution = "1440p"
	Resolution1080p VideoResolution = "1080p"
	Resolution720p  VideoResolution = "720p"
	Resolution480p  VideoResolution = "480p"
)

type VideoFormat string

const (
	VideoMp4  VideoFormat = "mp4"
	VideoMkv  VideoFormat = "mkv"
	VideoWebm VideoFormat = "webm"
)

type AudioFormat string

const (
	AudioMp3    AudioFormat = "mp3"
	AudioWav    AudioFormat = "wav"
	AudioVorbis AudioFormat = "vorbis"
	AudioM4a    AudioFormat = "m4a"
	AudioOpus   AudioFormat = "opus"
)

type AudioQuality string

const (
	QualityBest   AudioQuality = "best"
	QualityGood   AudioQuality = "good"
	QualityMedium AudioQuality = "medium"
	QualityLow    AudioQuality = "low"
)

type SponsorBlock string

const (
	SponsorBlockNone   SponsorBlock = ""
	SponsorBlockRemove SponsorBlock = "remove"
	SponsorBlockMark   SponsorBlock = "mark"
)

// Options holds the persisted media preferences.
type Options struct {
	VideoResolution VideoResolution `yaml:"video_resolution" mapstructure:"video_resolution" json:"video_resolution"`
	VideoFormat     VideoFormat     `yaml:"video_format" mapstructure:"video_format" json:"video_format"`
	AudioQuality    AudioQuality    `yaml:"audio_quality" mapstructure:"audio_quality" json:"audio_quality"`
	AudioFormat     AudioFormat     `yaml:"audio_format" mapstructure:"audio_format" json:"audio_format"`
	SponsorBlock    SponsorBlock    `yaml:"sponsorblock" mapstructure:"sponsorblock" json:"sponsorblock"`
	CookiesFile     string          `yaml:"cookies_file" mapstructure:"cookies_file" json:"cookies_file"`
}

func Default() Options {
	return Options{
		VideoResolution: Resolution1080p,
		VideoFormat:     VideoMp4,
		AudioQuality:    QualityGood,
		AudioFormat:     AudioMp3,
	}
}

// Validate reports the first field holding an unknown value.
func (o Options) Validate() error {
	if _, ok := resolutionSort[o.VideoResolution]; !ok {
		return fmt.Errorf("unknown video resolution %q", o.VideoResolution)
	}
	if !validVideoFormat(o.VideoFormat) {
		return fmt.Errorf("unknown video format %q", o.VideoFormat)
	}
	if _, ok := qualityLevel[o.AudioQuality]; !ok {
		return fmt.Errorf("unknown audio quality %q", o.AudioQuality)
	}
	if !validAudioFormat(o.AudioFormat) {
		return fmt.Errorf("unknown audio format %q", o.AudioFormat)
	}
	if _, ok := sponsorBlockFlag[o.SponsorBlock]; !ok && o.SponsorBlock != SponsorBlockNone {
		return fmt.Errorf("unknown sponsorblock mode %q", o.SponsorBlock)
	}
	return nil
}

// Summary is the compact option description written to the history log.
func (o Options) Summary(m Media) string {
	if m == MediaAudio {
		return fmt.Sprintf("%s:%s", o.AudioQuality, o.AudioFormat)
	}
	return fmt.Sprintf("%s:%s", o.VideoResolution, o.VideoFormat)
}

var resolutionSort = map[VideoResolution]string{
	Resolution4K:    "res:2160",
	Resolution1440p: "res:1440",
	Resolution1080p: "res:1080",
	Resolution720p:  "res:720",
	Resolution480p:  "res:480",
}

var qualityLevel = map[AudioQuality]string{
	QualityBest:   "0",
	QualityGood:   "2",
	QualityMedium: "4",
	QualityLow:    "6",
}

var sponsorBlockFlag = map[SponsorBlock]string{
	SponsorBlockRemove: "--sponsorblock-remove=default",
	SponsorBlockMark:   "--sponsorblock-mark=default",
}

func validVideoFormat(f VideoFormat) bool {
	switch f {
	case VideoMp4, VideoMkv, VideoWebm:
		return true
	}
	return false
}

func validAudioFormat(f AudioFormat) bool {
	switch f {
	case AudioMp3, AudioWav, AudioVorbis, AudioM4a, AudioOpus:
		return true
	}
	return false
}
