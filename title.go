package doclog

import (
	"regexp"
	"strconv"
	"strings"
)

// revisionRe matches a title followed by one or more revision markers such as
// "v2", "Revision 3", "r1" or "Updates: N1234", delimited by dots, commas,
// spaces or parentheses.
var revisionRe = regexp.MustCompile(
	`^(.*?)((?:[. ,(]+(?:[Uu]pdates?[: ]+(?:[Nnrv][0-9.]+)|(?:[rRvV]|[rR]evision|[vV]ersion)\.? ?[0-9.]+)[. ,)]*)+)$`)

// updatesRe matches an explicit reference to an updated document. The log
// spells these "updates N1234" or "Updates:N1234"; "Updates: N1234" is not a
// reference, although SplitTitle still treats it as an annotation.
var updatesRe = regexp.MustCompile(`[Uu]pdates?[: ][Nn]([0-9]+)`)

// SplitTitle splits a title into its main part and its trailing revision
// annotation. The annotation is empty when the title carries no revision marker.
func SplitTitle(title string) (main, aux string) {
	m := revisionRe.FindStringSubmatch(title)
	if m == nil {
		return title, ""
	}
	aux = strings.TrimLeft(m[2], " ,.")
	if strings.HasPrefix(aux, "(") && strings.HasSuffix(aux, ")") {
		aux = strings.TrimRight(strings.TrimLeft(aux, "("), ")")
	}
	return m[1], aux
}

// UpdateRefs returns the document numbers an auxiliary title says it updates,
// in order of appearance.
func UpdateRefs(aux string) []int {
	if aux == "" {
		return nil
	}
	var refs []int
	for _, m := range updatesRe.FindAllStringSubmatch(aux, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		refs = append(refs, n)
	}
	return refs
}
