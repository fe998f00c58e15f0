package x11

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgbutil/xprop"
)

// XftDPI reads Xft.dpi from the root window's RESOURCE_MANAGER property.
func (c *Connection) XftDPI() (float64, bool) {
	db, err := xprop.PropValStr(xprop.GetProperty(c.XUtil, c.Root, "RESOURCE_MANAGER"))
	if err != nil {
		return 0, false
	}
	return ParseXftDPI(db)
}

// ParseXftDPI extracts a positive Xft.dpi value from an X resource database
// string.
func ParseXftDPI(db string) (float64, bool) {
	scanner := bufio.NewScanner(strings.NewReader(db))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || dpi <= 0 {
			return 0, false
		}
		return dpi, true
	}
	return 0, false
}
