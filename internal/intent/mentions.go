package intent

import (
	"regexp"
	"strconv"
)

// mentionPattern matches the product-identifier surface forms an
// assistant reply uses: "ID: 5", "id 5", "producto 5", "product 5".
var mentionPattern = regexp.MustCompile(`(?i)\b(?:id|producto|product)\s*[:#]?\s*(\d+)`)

// ExtractMentions pulls the product IDs a reply text refers to.
// Output preserves first-occurrence order, drops duplicates, and
// rejects numbers outside [minID, maxID] as false positives (prices
// or percentages that happen to match the pattern).
func ExtractMentions(replyText string, minID, maxID int) []int {
	matches := mentionPattern.FindAllStringSubmatch(replyText, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(matches))
	var ids []int
	for _, m := range matches {
		id, err := strconv.Atoi(m[1])
		if err != nil || id < minID || id > maxID || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
