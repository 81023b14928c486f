package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bjartek/invokepanel/pkg/completion"
	"github.com/muesli/reflow/wordwrap"
)

// NameResolver maps an address or script hash to a friendly name. Unknown
// values are returned unchanged.
type NameResolver interface {
	GetName(address string) string
}

// addressBook resolves wallet addresses and deployed contract hashes known to
// the completion data.
type addressBook map[string]string

func newAddressBook(data completion.Data) addressBook {
	book := addressBook{}
	for name, address := range data.WellKnownAddresses {
		book[address] = name
	}
	for hash, manifest := range data.ContractManifests {
		if manifest.Name != "" {
			book[strings.ToLower(hash)] = manifest.Name
		}
	}
	return book
}

func (b addressBook) GetName(address string) string {
	if name, ok := b[address]; ok {
		return name
	}
	if name, ok := b[strings.ToLower(address)]; ok {
		return name
	}
	return address
}

// FormatFieldValueWithRegistry formats a step argument or transaction field
// for display. Maps and arrays are rendered indented on the following lines,
// simple values stay on one line. Neo addresses and contract hashes are
// replaced with the names names knows. maxWidth limits
// the line width for long strings (0 = no wrapping).
func FormatFieldValueWithRegistry(val any, baseIndent string, names NameResolver, showRawAddresses bool, maxWidth int) string {
	switch val.(type) {
	case map[string]any, []any:
		return "\n" + formatValue(val, baseIndent, names, showRawAddresses, maxWidth)
	default:
		return formatSimpleValue(val, names, showRawAddresses, baseIndent, maxWidth)
	}
}

// formatSimpleValue avoids scientific notation for numbers and wraps long strings
func formatSimpleValue(val any, names NameResolver, showRawAddresses bool, indent string, maxWidth int) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case json.Number:
		return v.String()
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		s := fmt.Sprintf("%.10f", v)
		s = strings.TrimRight(s, "0")
		return strings.TrimRight(s, ".")
	case string:
		if !showRawAddresses && names != nil && (isNeoAddress(v) || isScriptHash(v)) {
			if name := names.GetName(v); name != v {
				return name
			}
		}
		if maxWidth > 0 && len(v) > maxWidth-len(indent) {
			return wrapString(v, indent, maxWidth)
		}
		return v
	default:
		return fmt.Sprintf("%v", val)
	}
}

func wrapString(v, indent string, maxWidth int) string {
	availableWidth := max(maxWidth-len(indent), 20)

	var lines []string
	if !strings.Contains(v, " ") {
		// hex and base64 blobs have no word boundaries
		remaining := v
		for len(remaining) > availableWidth {
			lines = append(lines, remaining[:availableWidth])
			remaining = remaining[availableWidth:]
		}
		lines = append(lines, remaining)
	} else {
		lines = strings.Split(wordwrap.String(v, availableWidth), "\n")
	}

	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// isNeoAddress checks if a string looks like an N3 address
func isNeoAddress(s string) bool {
	if len(s) != 34 || s[0] != 'N' {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(base58Alphabet, c) {
			return false
		}
	}
	return true
}

// isScriptHash checks for a 0x-prefixed 160-bit hash
func isScriptHash(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

func formatValue(val any, indent string, names NameResolver, showRawAddresses bool, maxWidth int) string {
	switch v := val.(type) {
	case map[string]any:
		if len(v) == 0 {
			return indent + "{}"
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var lines []string
		for _, key := range keys {
			value := v[key]
			switch value.(type) {
			case map[string]any, []any:
				lines = append(lines, fmt.Sprintf("%s%s:", indent, key))
				lines = append(lines, formatValue(value, indent+"  ", names, showRawAddresses, maxWidth))
			default:
				lineIndent := indent + key + ": "
				lines = append(lines, fmt.Sprintf("%s%s: %s", indent, key, formatSimpleValue(value, names, showRawAddresses, lineIndent, maxWidth)))
			}
		}
		return strings.Join(lines, "\n")

	case []any:
		if len(v) == 0 {
			return indent + "[]"
		}
		var lines []string
		for i, item := range v {
			switch item.(type) {
			case map[string]any, []any:
				lines = append(lines, fmt.Sprintf("%s- [%d]:", indent, i))
				lines = append(lines, formatValue(item, indent+"  ", names, showRawAddresses, maxWidth))
			default:
				lineIndent := indent + "- "
				lines = append(lines, fmt.Sprintf("%s- %s", indent, formatSimpleValue(item, names, showRawAddresses, lineIndent, maxWidth)))
			}
		}
		return strings.Join(lines, "\n")

	default:
		return indent + formatSimpleValue(val, names, showRawAddresses, indent, maxWidth)
	}
}
