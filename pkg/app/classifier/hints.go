package classifier

import "regexp"

// Hint tables hold lower-cased substrings matched against the lower-cased tag.
var (
	safeTechnicalHints = []string{
		"depth", "portrait", "hdr", "gainmap",
		"semantic", "segmentation", "matte",
		"plist", "makernote", "icc", "colorspace",
		"matrix", "chromatic", "quicktime",
		"heic", "jpeg", "hevc", "profile",
	}

	locationHints = []string{
		"gps", "latitude", "longitude",
		"gpscoordinates", "location", "position",
	}

	nameFieldHints = []string{
		"name", "author", "creator", "artist", "owner",
		"user", "account", "profile", "contact", "person",
		"byline", "photographer", "subject",
	}

	deviceHints = []string{
		"make", "model", "lens", "camera",
		"device", "hostcomputer", "software",
	}

	timeHints = []string{
		"createdate", "modifydate", "datetime",
		"datecreated", "timestamp", "subsectime",
	}
)

var (
	emailPattern     = regexp.MustCompile(`[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	phonePattern     = regexp.MustCompile(`\b\d{10,15}\b`)
	humanNamePattern = regexp.MustCompile(`\b[A-Z][a-z]{2,}(?:\s[A-Z][a-z]{2,}){0,3}\b`)
	digitRunPattern  = regexp.MustCompile(`\d{3,}`)
)

const shortValueLimit = 40
