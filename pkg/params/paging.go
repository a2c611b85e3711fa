package params

import (
	"fmt"
	"strconv"
	"strings"

	"mercator-hq/querygate/pkg/odata"
)

const (
	// MinTop is the smallest accepted top value.
	MinTop = 1

	// MaxTop is the largest number of records a single request may ask for.
	MaxTop = 1000
)

// Top validates a top value: an integer in [MinTop, MaxTop].
func (v *Validator) Top(value string) (int, error) {
	n, err := parseInteger(odata.ParamTop, value)
	if err != nil {
		return 0, err
	}
	if n < MinTop || n > MaxTop {
		return 0, odata.NewFormatError(odata.ParamTop, value,
			fmt.Sprintf("must be between %d and %d", MinTop, MaxTop))
	}
	return n, nil
}

// Skip validates a skip value: a non-negative integer. A sign is rejected
// before parsing, so "-0" fails too.
func (v *Validator) Skip(value string) (int, error) {
	if strings.HasPrefix(value, "-") {
		return 0, odata.NewFormatError(odata.ParamSkip, value, "must be >= 0")
	}
	n, err := parseInteger(odata.ParamSkip, value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, odata.NewFormatError(odata.ParamSkip, value, "must be >= 0")
	}
	return n, nil
}

// parseInteger accepts an optional leading '-' followed by ASCII digits and
// nothing else: no sign '+', no whitespace, no fraction or exponent. Well
// formed values that overflow int are reported as out of range.
func parseInteger(param, value string) (int, error) {
	if value == "" {
		return 0, odata.NewFormatError(param, value, "must be an integer")
	}
	digits := value
	if digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return 0, odata.NewFormatError(param, value, "must be an integer")
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, odata.NewFormatError(param, value, "must be an integer")
		}
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		fe := odata.NewFormatError(param, value, "integer out of range")
		fe.Err = err
		return 0, fe
	}
	return n, nil
}
