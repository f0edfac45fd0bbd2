package progress

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Percentage reports downloaded/total in the 0-100 range. The exact total
// is preferred over the estimate; ok is false when neither is usable.
func Percentage(d Downloading) (pct float64, ok bool) {
	var total float64

	switch {
	case d.TotalBytes != nil && *d.TotalBytes > 0:
		total = *d.TotalBytes
	case d.TotalBytesEstimate != nil && *d.TotalBytesEstimate > 0:
		total = *d.TotalBytesEstimate
	default:
		return 0, false
	}

	pct = d.DownloadedBytes / total * 100

	if math.IsNaN(pct) {
		return 0, false
	}

	return math.Max(0, math.Min(100, pct)), true
}

// maxETA is the largest ETA rendered, 9999:59.
const maxETA = 9999*60 + 59

// FormatETA renders seconds as MM:SS, truncating the fractional part.
// Longer ETAs are capped at maxETA.
func FormatETA(eta *float64) string {
	var secs int64
	if eta != nil && *eta > 0 {
		secs = int64(math.Min(*eta, maxETA))
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Describe builds the status line shown while a file is downloading.
func Describe(d Downloading) string {
	var speed float64
	if d.Speed != nil && *d.Speed > 0 {
		speed = *d.Speed
	}

	return fmt.Sprintf("%s | %s/s | ETA %s",
		humanize.IBytes(uint64(math.Max(0, d.DownloadedBytes))),
		humanize.IBytes(uint64(speed)),
		FormatETA(d.ETA),
	)
}

// PlaylistPosition is empty unless both playlist fields were reported.
func PlaylistPosition(d Downloading) string {
	if d.PlaylistIndex == nil || d.PlaylistCount == nil {
		return ""
	}
	return fmt.Sprintf("Downloading %d/%d", *d.PlaylistIndex, *d.PlaylistCount)
}
