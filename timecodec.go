package mot

import (
	"math"
	"time"
)

/*
Absolute time is coded as MJD (Modified Julian Day) plus a UTC time-of-day
bitfield, in either a 4-byte short form (hour, minute) or a 6-byte long
form (hour, minute, second, millisecond). See spec.md §4.3.

A nil *time.Time encodes to the all-zero 4-byte "NOW"/unspecified payload.
*/

func gregorianToJDN(year int64, month, day int) int64 {
	a := (14 - int64(month)) / 12
	y := year + 4800 - a
	m := int64(month) + 12*a - 3
	return int64(day) + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// jdnToGregorian is the Fliegel & Van Flandern inverse of gregorianToJDN.
func jdnToGregorian(jdn int64) (year int64, month int, day int) {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - (146097*b)/4
	d := (4*c + 3) / 1461
	e := c - (1461*d)/4
	m := (5*e + 2) / 153
	day = int(e - (153*m+2)/5 + 1)
	month = int(m + 3 - 12*(m/10))
	year = 100*b + d - 4800 + m/10
	return
}

func mjdFromTime(t time.Time) int64 {
	jdn := gregorianToJDN(int64(t.Year()), int(t.Month()), t.Day())
	jd := float64(jdn) + float64(t.Hour()-12)/24.0 + float64(t.Minute())/1440.0 + float64(t.Second())/86400.0
	return int64(math.Floor(jd - 2400000.5))
}

// dateFromMJD is the inverse of mjdFromTime at day resolution: the MJD
// alone identifies the calendar day, hour/minute/second/ms travel
// separately in the bitfield.
func dateFromMJD(mjd int64) (year int, month time.Month, day int) {
	jdn := mjd + 2400001
	y, m, d := jdnToGregorian(jdn)
	return int(y), time.Month(m), d
}

// encodeAbsoluteTime packs t per spec.md §4.3. t == nil yields the
// all-zero "NOW" payload.
func encodeAbsoluteTime(t *time.Time) []byte {
	w := NewBitWriter()
	if t == nil {
		w.WriteBits(0, 32)
		return w.Bytes()
	}

	utc := t.UTC()
	w.WriteBits(1, 1) // b0: ValidityFlag
	w.WriteBits(uint64(mjdFromTime(utc)), 17)
	w.WriteBits(0, 2) // b18-19: RFU

	if utc.Second() > 0 {
		w.WriteBits(1, 1) // b20: UTC flag, long form
		w.WriteBits(uint64(utc.Hour()), 5)
		w.WriteBits(uint64(utc.Minute()), 6)
		w.WriteBits(uint64(utc.Second()), 6)
		w.WriteBits(uint64(utc.Nanosecond()/1_000_000), 10)
	} else {
		w.WriteBits(0, 1) // b20: UTC flag, short form
		w.WriteBits(uint64(utc.Hour()), 5)
		w.WriteBits(uint64(utc.Minute()), 6)
	}
	return w.Bytes()
}

// decodeAbsoluteTime unpacks a 4- or 6-byte absolute time payload. It
// returns (nil, nil) for the all-zero "NOW"/unspecified payload.
func decodeAbsoluteTime(data []byte) (*time.Time, error) {
	if len(data) != 4 && len(data) != 6 {
		return nil, newError(KindMalformedParameter, "absolute time payload must be 4 or 6 bytes, got %d", len(data))
	}
	if allZero(data) {
		return nil, nil
	}

	r := NewBitReader(data)
	r.ReadBits(1) // ValidityFlag: ignored once we know the payload is not all-zero
	mjd, _ := r.ReadBits(17)
	r.ReadBits(2) // RFU
	utcFlag, _ := r.ReadBits(1)
	hour, _ := r.ReadBits(5)
	minute, _ := r.ReadBits(6)

	var second, millis uint64
	if utcFlag == 1 {
		if len(data) != 6 {
			return nil, newError(KindMalformedParameter, "UTC flag signals long form but payload is %d bytes", len(data))
		}
		second, _ = r.ReadBits(6)
		millis, _ = r.ReadBits(10)
	} else if len(data) != 4 {
		return nil, newError(KindMalformedParameter, "UTC flag signals short form but payload is %d bytes", len(data))
	}

	year, month, day := dateFromMJD(int64(mjd))
	t := time.Date(year, month, day, int(hour), int(minute), int(second), int(millis)*1_000_000, time.UTC)
	return &t, nil
}

func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

/*
Relative time is a 1-byte (granularity, interval) pair. Granularity picks
the unit; encoding always selects the smallest granularity whose range
covers the input duration (spec.md §4.3/§8).
*/

const (
	maxRelativeExpiration = 63 * 24 * time.Hour
)

func encodeRelativeTime(d time.Duration) ([]byte, error) {
	if d < 0 {
		return nil, newError(KindOutOfRange, "relative expiration must not be negative: %s", d)
	}
	totalSeconds := int64(d / time.Second)
	w := NewBitWriter()

	switch {
	case d <= 126*time.Minute:
		w.WriteBits(0, 2)
		w.WriteBits(uint64(totalSeconds/60/2), 6)
	case d <= 1890*time.Minute: // 31.5 hours
		w.WriteBits(1, 2)
		w.WriteBits(uint64(totalSeconds/60/30), 6)
	case d <= 126*time.Hour:
		w.WriteBits(2, 2)
		w.WriteBits(uint64(totalSeconds/3600/2), 6)
	case d <= maxRelativeExpiration:
		w.WriteBits(3, 2)
		w.WriteBits(uint64(totalSeconds/86400), 6)
	default:
		return nil, newError(KindOutOfRange, "relative expiration %s exceeds maximum of %s", d, maxRelativeExpiration)
	}
	return w.Bytes(), nil
}

func decodeRelativeTime(data []byte) (time.Duration, error) {
	if len(data) != 1 {
		return 0, newError(KindMalformedParameter, "relative time payload must be 1 byte, got %d", len(data))
	}
	r := NewBitReader(data)
	granularity, _ := r.ReadBits(2)
	interval, _ := r.ReadBits(6)

	switch granularity {
	case 0:
		return time.Duration(interval) * 2 * time.Minute, nil
	case 1:
		return time.Duration(interval) * 30 * time.Minute, nil
	case 2:
		return time.Duration(interval) * 2 * time.Hour, nil
	case 3:
		return time.Duration(interval) * 24 * time.Hour, nil
	default:
		return 0, newError(KindMalformedParameter, "impossible granularity %d", granularity)
	}
}
