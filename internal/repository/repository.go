package repository

import (
	"encoding/base64"
	"time"
)

const timeFormat = "2006-01-02T15:04:05.999Z07:00" // reduce precision from RFC3339Nano as date format

// EncodeCursor will encode the cursor from time.Time
func EncodeCursor(t time.Time) string {
	timeString := t.Format(timeFormat)

	return base64.StdEncoding.EncodeToString([]byte(timeString))
}

// DecodeCursor will decode the cursor to time.Time
func DecodeCursor(encodedTime string) (time.Time, error) {
	byt, err := base64.StdEncoding.DecodeString(encodedTime)
	if err != nil {
		return time.Time{}, err
	}

	timeString := string(byt)

	return time.Parse(timeFormat, timeString)
}
