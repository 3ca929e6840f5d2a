package aei

import "fmt"

// Quality is the compression quality tier stored in the AEI footer.
type Quality uint8

const (
	// QualityNone means no quality is recorded.
	QualityNone   Quality = 0
	QualityLow    Quality = 1
	QualityMedium Quality = 2
	QualityHigh   Quality = 3
)

// Valid reports whether q is QualityNone or one of the three tiers.
func (q Quality) Valid() bool {
	return q <= QualityHigh
}

func (q Quality) String() string {
	switch q {
	case QualityNone:
		return "none"
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("Quality(%d)", uint8(q))
	}
}

func qualityFromBinary(raw byte) (Quality, error) {
	q := Quality(raw)
	if !q.Valid() {
		return QualityNone, fmt.Errorf("%w: %d", ErrInvalidQuality, raw)
	}

	return q, nil
}
