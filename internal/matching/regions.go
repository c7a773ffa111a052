package matching

import (
	"sort"
	"strings"
)

// regionPlaces lists each region (Indian state or union territory) with the
// city and legacy names that refer to it.
var regionPlaces = []struct {
	region string
	places []string
}{
	{"andhra pradesh", []string{"visakhapatnam", "vijayawada"}},
	{"arunachal pradesh", nil},
	{"assam", []string{"guwahati"}},
	{"bihar", []string{"patna"}},
	{"chhattisgarh", []string{"raipur"}},
	{"goa", []string{"panaji"}},
	{"gujarat", []string{"ahmedabad", "surat", "vadodara", "rajkot"}},
	{"haryana", []string{"gurgaon", "gurugram", "faridabad"}},
	{"himachal pradesh", []string{"shimla"}},
	{"jharkhand", []string{"ranchi", "jamshedpur"}},
	{"karnataka", []string{"bengaluru", "bangalore", "mysuru", "mysore"}},
	{"kerala", []string{"kochi", "thiruvananthapuram"}},
	{"madhya pradesh", []string{"bhopal", "indore"}},
	{"maharashtra", []string{"mumbai", "pune", "nagpur", "nashik", "thane"}},
	{"manipur", []string{"imphal"}},
	{"meghalaya", []string{"shillong"}},
	{"mizoram", []string{"aizawl"}},
	{"nagaland", []string{"kohima"}},
	{"odisha", []string{"orissa", "bhubaneswar"}},
	{"punjab", []string{"ludhiana", "amritsar"}},
	{"rajasthan", []string{"jaipur", "jodhpur", "udaipur"}},
	{"sikkim", []string{"gangtok"}},
	{"tamil nadu", []string{"chennai", "coimbatore", "madurai"}},
	{"telangana", []string{"hyderabad"}},
	{"tripura", []string{"agartala"}},
	{"uttar pradesh", []string{"lucknow", "kanpur", "noida"}},
	{"uttarakhand", []string{"uttaranchal", "dehradun"}},
	{"west bengal", []string{"kolkata", "calcutta"}},
	{"delhi", []string{"new delhi", "ncr"}},
	{"jammu and kashmir", []string{"srinagar"}},
	{"ladakh", []string{"leh"}},
	{"chandigarh", nil},
	{"puducherry", []string{"pondicherry"}},
}

// regionAliases maps a normalized place name to its region. Region names map to themselves.
var regionAliases = buildRegionAliases()

func buildRegionAliases() map[string]string {
	m := make(map[string]string)
	for _, rp := range regionPlaces {
		m[rp.region] = rp.region
		for _, p := range rp.places {
			m[p] = rp.region
		}
	}
	return m
}

// regionBorders lists neighboring regions as unordered pairs.
var regionBorders = [][2]string{
	{"maharashtra", "gujarat"}, {"maharashtra", "madhya pradesh"}, {"maharashtra", "chhattisgarh"},
	{"maharashtra", "telangana"}, {"maharashtra", "karnataka"}, {"maharashtra", "goa"},
	{"gujarat", "rajasthan"}, {"gujarat", "madhya pradesh"},
	{"rajasthan", "punjab"}, {"rajasthan", "haryana"}, {"rajasthan", "uttar pradesh"}, {"rajasthan", "madhya pradesh"},
	{"madhya pradesh", "uttar pradesh"}, {"madhya pradesh", "chhattisgarh"},
	{"karnataka", "goa"}, {"karnataka", "kerala"}, {"karnataka", "tamil nadu"},
	{"karnataka", "andhra pradesh"}, {"karnataka", "telangana"},
	{"tamil nadu", "kerala"}, {"tamil nadu", "andhra pradesh"}, {"tamil nadu", "puducherry"},
	{"andhra pradesh", "telangana"}, {"andhra pradesh", "odisha"}, {"andhra pradesh", "chhattisgarh"},
	{"telangana", "chhattisgarh"},
	{"odisha", "chhattisgarh"}, {"odisha", "jharkhand"}, {"odisha", "west bengal"},
	{"west bengal", "jharkhand"}, {"west bengal", "bihar"}, {"west bengal", "sikkim"}, {"west bengal", "assam"},
	{"bihar", "uttar pradesh"}, {"bihar", "jharkhand"},
	{"jharkhand", "uttar pradesh"}, {"jharkhand", "chhattisgarh"},
	{"uttar pradesh", "uttarakhand"}, {"uttar pradesh", "haryana"}, {"uttar pradesh", "delhi"},
	{"uttar pradesh", "himachal pradesh"}, {"uttar pradesh", "chhattisgarh"},
	{"haryana", "punjab"}, {"haryana", "himachal pradesh"}, {"haryana", "delhi"}, {"haryana", "chandigarh"},
	{"punjab", "himachal pradesh"}, {"punjab", "jammu and kashmir"}, {"punjab", "chandigarh"},
	{"himachal pradesh", "uttarakhand"}, {"himachal pradesh", "jammu and kashmir"}, {"himachal pradesh", "ladakh"},
	{"jammu and kashmir", "ladakh"},
	{"assam", "arunachal pradesh"}, {"assam", "nagaland"}, {"assam", "manipur"},
	{"assam", "meghalaya"}, {"assam", "mizoram"}, {"assam", "tripura"},
	{"nagaland", "manipur"}, {"nagaland", "arunachal pradesh"},
	{"manipur", "mizoram"}, {"mizoram", "tripura"},
}

// aliasesByLength holds alias keys longest first, so "new delhi" wins over "delhi".
var aliasesByLength = sortedAliases()

func sortedAliases() []string {
	keys := make([]string, 0, len(regionAliases))
	for k := range regionAliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// RegionGraph is an undirected adjacency graph of regions.
type RegionGraph struct {
	adj map[string]map[string]struct{}
}

// NewRegionGraph builds a graph from unordered pairs. Each pair is stored in both directions.
func NewRegionGraph(pairs [][2]string) *RegionGraph {
	g := &RegionGraph{adj: make(map[string]map[string]struct{})}
	for _, p := range pairs {
		g.addEdge(p[0], p[1])
	}
	return g
}

func (g *RegionGraph) addEdge(a, b string) {
	a, b = normalizePlace(a), normalizePlace(b)
	if a == "" || b == "" || a == b {
		return
	}
	if g.adj[a] == nil {
		g.adj[a] = make(map[string]struct{})
	}
	if g.adj[b] == nil {
		g.adj[b] = make(map[string]struct{})
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
}

// Adjacent reports whether a and b share a border.
func (g *RegionGraph) Adjacent(a, b string) bool {
	_, ok := g.adj[normalizePlace(a)][normalizePlace(b)]
	return ok
}

// Neighbors returns the sorted neighbors of region.
func (g *RegionGraph) Neighbors(region string) []string {
	set := g.adj[normalizePlace(region)]
	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

var defaultRegionGraph = NewRegionGraph(regionBorders)

// DefaultRegionGraph returns the built-in graph of neighboring Indian states and territories.
func DefaultRegionGraph() *RegionGraph {
	return defaultRegionGraph
}

// ExtractRegion finds the region a free-text location refers to.
// Comma-separated parts are checked from last to first (the region usually comes last),
// then the whole string is scanned for a known place name.
func ExtractRegion(location string) (string, bool) {
	norm := normalizePlace(location)
	if norm == "" {
		return "", false
	}
	parts := strings.Split(norm, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if region, ok := regionAliases[strings.TrimSpace(parts[i])]; ok {
			return region, true
		}
	}
	padded := " " + strings.Join(placeWords(norm), " ") + " "
	for _, alias := range aliasesByLength {
		if strings.Contains(padded, " "+alias+" ") {
			return regionAliases[alias], true
		}
	}
	return "", false
}

// normalizePlace lower-cases s and collapses runs of whitespace, keeping commas.
func normalizePlace(s string) string {
	parts := strings.Split(strings.ToLower(s), ",")
	out := parts[:0]
	for _, p := range parts {
		if f := strings.Join(strings.Fields(p), " "); f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, ",")
}

// placeWords splits a location into lower-case alphanumeric words.
func placeWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
