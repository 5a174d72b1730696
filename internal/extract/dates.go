package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// dmyPattern matches DD-MM-YYYY and DD/MM/YYYY, the two non-ISO forms the
// models actually produce. Anything else passes through untouched and will
// fail downstream validation rather than being guessed at; month-name and
// two-digit-year forms are ambiguous and deliberately not handled.
var dmyPattern = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)

// NormalizeDate rewrites DD-MM-YYYY or DD/MM/YYYY into YYYY-MM-DD. Already
// normalized input comes back unchanged, so the function is idempotent.
func NormalizeDate(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return dateStr
	}
	m := dmyPattern.FindStringSubmatch(dateStr)
	if m == nil {
		return dateStr
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}
