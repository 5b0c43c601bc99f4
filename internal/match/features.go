package match

import (
	"regexp"
	"strings"

	"github.com/pricescout/pricescout/internal/model"
)

// brandPattern holds one brand detection rule.
type brandPattern struct {
	name    string
	pattern *regexp.Regexp
}

// brandPatterns is evaluated in order; the first match wins. Order
// matters: brand detection runs before model detection because several
// model tables below are brand-specific.
var brandPatterns = []brandPattern{
	{name: "apple", pattern: regexp.MustCompile(`\b(apple|iphone|ipad|macbook|imac|airpods)\b`)},
	{name: "samsung", pattern: regexp.MustCompile(`\b(samsung|galaxy)\b`)},
	{name: "oneplus", pattern: regexp.MustCompile(`\b(oneplus|one\s*plus)\b`)},
	{name: "xiaomi", pattern: regexp.MustCompile(`\b(xiaomi|redmi|poco)\b`)},
	{name: "oppo", pattern: regexp.MustCompile(`\b(oppo)\b`)},
	{name: "vivo", pattern: regexp.MustCompile(`\b(vivo)\b`)},
	{name: "realme", pattern: regexp.MustCompile(`\b(realme)\b`)},
	{name: "google", pattern: regexp.MustCompile(`\b(google|pixel)\b`)},
	{name: "sony", pattern: regexp.MustCompile(`\b(sony|xperia|playstation)\b`)},
	{name: "lg", pattern: regexp.MustCompile(`\b(lg)\b`)},
	{name: "motorola", pattern: regexp.MustCompile(`\b(motorola|moto)\b`)},
	{name: "nokia", pattern: regexp.MustCompile(`\b(nokia)\b`)},
	{name: "huawei", pattern: regexp.MustCompile(`\b(huawei|honor)\b`)},
	{name: "asus", pattern: regexp.MustCompile(`\b(asus|zenfone|rog)\b`)},
	{name: "lenovo", pattern: regexp.MustCompile(`\b(lenovo|thinkpad)\b`)},
	{name: "dell", pattern: regexp.MustCompile(`\b(dell|xps|alienware)\b`)},
	{name: "hp", pattern: regexp.MustCompile(`\b(hp|pavilion|spectre)\b`)},
}

// modelPatterns maps a brand to its model extraction rule. The capture
// group is the model designation.
var modelPatterns = map[string]*regexp.Regexp{
	"apple":   regexp.MustCompile(`\b(?:iphone|ipad|macbook)\s*((?:air|pro|mini)?\s*\d+[a-z]*(?:\s*(?:pro|max|plus|mini|air|ultra))*)\b`),
	"samsung": regexp.MustCompile(`\bgalaxy\s*([a-z]\d+[a-z]*(?:\s*(?:ultra|plus|fe))?)\b`),
	"google":  regexp.MustCompile(`\bpixel\s*(\d+[a-z]*(?:\s*(?:pro|xl))*)\b`),
	"oneplus": regexp.MustCompile(`\boneplus\s*(\d+[a-z]*(?:\s*(?:pro|rt?))?)\b`),
}

// genericModelPattern is the fallback when no brand-specific rule
// matches: a letter run followed by digits, optionally one of the
// common model suffix words.
var genericModelPattern = regexp.MustCompile(`\b([a-z]+\s*\d+(?:\s*(?:pro|max|plus|mini|ultra|air|xl|fe|se))?)\b`)

// storagePattern matches capacities like "128GB", "1 TB", "512 gb".
var storagePattern = regexp.MustCompile(`\b(\d+)\s*(gb|tb|mb)\b`)

// ramPattern matches memory specs like "8GB RAM".
var ramPattern = regexp.MustCompile(`\b(\d+)\s*gb\s*(?:ram|memory)\b`)

// colorPattern matches the color vocabulary retailers use in titles,
// including the two-word finishes Apple is fond of.
var colorPattern = regexp.MustCompile(`\b(natural titanium|white titanium|black titanium|desert titanium|space gr[ae]y|midnight|starlight|black|white|blue|red|green|gold|silver|rose|pink|purple|yellow|orange|gray|grey|titanium|graphite)\b`)

// categoryPattern holds one category detection rule.
type categoryPattern struct {
	name    string
	pattern *regexp.Regexp
}

// categoryPatterns is evaluated in order; the first match wins.
// More specific categories come first so "tablet" beats the generic
// phone vocabulary in "iPad / tablet phone holder" style titles.
var categoryPatterns = []categoryPattern{
	{name: "tablet", pattern: regexp.MustCompile(`\b(tablet|ipad)\b`)},
	{name: "laptop", pattern: regexp.MustCompile(`\b(laptop|notebook|macbook|chromebook|ultrabook)\b`)},
	{name: "headphones", pattern: regexp.MustCompile(`\b(headphones?|earphones?|airpods|earbuds?)\b`)},
	{name: "watch", pattern: regexp.MustCompile(`\b(smartwatch|watch)\b`)},
	{name: "smartphone", pattern: regexp.MustCompile(`\b(phone|smartphone|mobile)\b`)},
	{name: "television", pattern: regexp.MustCompile(`\b(tv|television|oled|qled)\b`)},
	{name: "console", pattern: regexp.MustCompile(`\b(playstation|xbox|console|nintendo)\b`)},
}

// cameraPattern and displayPattern feed the key-spec list.
var (
	cameraPattern  = regexp.MustCompile(`\b(\d+)\s*mp\b`)
	displayPattern = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:inch|")`)
)

// ExtractFeatures derives structured attributes from a product name,
// with the query appended for context: titles often omit the brand when
// the query already names it.
//
// The text is lowercased but punctuation is kept, because some patterns
// need it (display sizes like 6.1", decimal separators).
func ExtractFeatures(productName, query string) model.FeatureSet {
	text := strings.ToLower(productName + " " + query)

	features := model.FeatureSet{}
	features.Brand = extractBrand(text)
	features.Model = extractModel(text, features.Brand)
	features.Storage = extractStorage(text)
	features.Color = extractColor(text)
	features.Category = extractCategory(text)
	features.KeySpecs = extractKeySpecs(text)

	return features
}

// extractBrand returns the first matching brand, or "".
func extractBrand(text string) string {
	for _, bp := range brandPatterns {
		if bp.pattern.MatchString(text) {
			return bp.name
		}
	}
	return ""
}

// extractModel returns the model designation, preferring the brand's
// own pattern over the generic fallback.
func extractModel(text, brand string) string {
	if brand != "" {
		if pattern, ok := modelPatterns[brand]; ok {
			if m := pattern.FindStringSubmatch(text); m != nil {
				return normalizeSpaces(m[1])
			}
		}
	}

	if m := genericModelPattern.FindStringSubmatch(text); m != nil {
		return normalizeSpaces(m[1])
	}
	return ""
}

// extractStorage returns the capacity normalized like "128GB", or "".
// RAM specs are excluded so "8GB RAM 256GB" yields "256GB".
func extractStorage(text string) string {
	withoutRAM := ramPattern.ReplaceAllString(text, " ")
	if m := storagePattern.FindStringSubmatch(withoutRAM); m != nil {
		return m[1] + strings.ToUpper(m[2])
	}
	return ""
}

// extractColor returns the detected color word(s), or "".
func extractColor(text string) string {
	if m := colorPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractCategory returns the product category, or "".
func extractCategory(text string) string {
	for _, cp := range categoryPatterns {
		if cp.pattern.MatchString(text) {
			return cp.name
		}
	}
	return ""
}

// extractKeySpecs collects short spec strings in a stable order.
func extractKeySpecs(text string) []string {
	var specs []string

	if m := ramPattern.FindStringSubmatch(text); m != nil {
		specs = append(specs, m[1]+"GB RAM")
	}
	if m := cameraPattern.FindStringSubmatch(text); m != nil {
		specs = append(specs, m[1]+"MP")
	}
	if m := displayPattern.FindStringSubmatch(text); m != nil {
		specs = append(specs, m[1]+`"`)
	}

	return specs
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
