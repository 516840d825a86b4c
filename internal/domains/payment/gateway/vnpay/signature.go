package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"sort"
	"strings"
)

// =====================================================
// VNPAY PARAMETERS
// =====================================================

// Params is an insertion-ordered field set. Setting an existing key
// replaces its value in place, so no field appears twice.
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams creates an empty parameter set
func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// Set adds or replaces a field
func (p *Params) Set(key, value string) {
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the field value ("" when absent)
func (p *Params) Get(key string) string {
	return p.values[key]
}

// Len returns the number of fields
func (p *Params) Len() int {
	return len(p.keys)
}

// Keys returns field names in insertion order
func (p *Params) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Without returns a copy of p minus the given fields
func (p *Params) Without(exclude ...string) *Params {
	out := NewParams()
	for _, k := range p.keys {
		skip := false
		for _, e := range exclude {
			if k == e {
				skip = true
				break
			}
		}
		if !skip {
			out.Set(k, p.values[k])
		}
	}
	return out
}

// Map returns the fields as a plain map (request body)
func (p *Params) Map() map[string]string {
	m := make(map[string]string, len(p.keys))
	for _, k := range p.keys {
		m[k] = p.values[k]
	}
	return m
}

// =====================================================
// CANONICALIZATION
// =====================================================

// QueryString canonicalizes p for pay requests:
// keys sorted byte-wise ascending, empty values skipped,
// key and value form-encoded (see FormEncode), pairs joined by '&'.
// The result is both the hash input and the redirect query string.
func QueryString(p *Params) string {
	keys := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		if p.values[k] != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, FormEncode(k)+"="+FormEncode(p.values[k]))
	}
	return strings.Join(parts, "&")
}

// FormEncode applies the provider's form encoding: ASCII letters, digits
// and ".-*_" pass through, space becomes '+', every other byte of the
// UTF-8 form becomes %XX (uppercase). Unlike url.QueryEscape, '~' is
// escaped and '*' is not.
func FormEncode(s string) string {
	const upperhex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '.', c == '-', c == '*', c == '_':
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

// PipeString canonicalizes p for the refund API:
// raw values in insertion order, empty values skipped, joined by '|'.
func PipeString(p *Params) string {
	parts := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		if v := p.values[k]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "|")
}

// =====================================================
// SIGNATURE
// =====================================================

// Sign returns the lowercase hex HMAC-SHA512 of data keyed by secretKey
func Sign(secretKey, data string) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature of data and compares it with
// claimedHash case-insensitively in constant time.
func Verify(secretKey, data, claimedHash string) bool {
	if claimedHash == "" {
		return false
	}
	expected := Sign(secretKey, data)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(claimedHash)))
}

// BuildPaymentURL signs the query-style canonical string of params and
// appends vnp_SecureHash as the last, unsigned field.
//
// baseURL?k1=v1&k2=v2&...&vnp_SecureHash=<hash>
func BuildPaymentURL(baseURL string, params *Params, hashSecret string) string {
	query := QueryString(params.Without(FieldSecureHash, FieldSecureHashType))
	secureHash := Sign(hashSecret, query)
	return baseURL + "?" + query + "&" + FieldSecureHash + "=" + secureHash
}
