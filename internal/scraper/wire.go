package scraper

// CrewJSON is the JSON shape of a crew result. CrewMembers holds a []string
// for primary results. For fallback results in compatibility mode it holds the
// boat name as a plain string while Name carries the page heading.
type CrewJSON struct {
	Name        string `json:"name"`
	CrewMembers any    `json:"crew_members"`
	Heading     string `json:"heading,omitempty"`
}

// EntriesJSON wraps crew results the way /entries serves them.
type EntriesJSON struct {
	Results []CrewJSON `json:"results"`
}

// EncodeCrews converts results to their JSON shape. With normalizeFallback
// false, fallback results keep the legacy swapped layout
// {"name": heading, "crew_members": boatName}. With it true they become
// {"name": boatName, "crew_members": [], "heading": heading}.
func EncodeCrews(results []CrewResult, normalizeFallback bool) EntriesJSON {
	out := EntriesJSON{Results: make([]CrewJSON, 0, len(results))}
	for _, r := range results {
		out.Results = append(out.Results, encodeCrew(r, normalizeFallback))
	}
	return out
}

func encodeCrew(r CrewResult, normalizeFallback bool) CrewJSON {
	if r.Kind == ResultPrimary {
		members := r.Members
		if members == nil {
			members = []string{}
		}
		return CrewJSON{Name: r.BoatName, CrewMembers: members}
	}
	if normalizeFallback {
		return CrewJSON{Name: r.BoatName, CrewMembers: []string{}, Heading: r.Heading}
	}
	return CrewJSON{Name: r.Heading, CrewMembers: r.BoatName}
}
