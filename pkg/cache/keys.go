package cache

// Keyer derives cache keys for pipeline results.
type Keyer interface {
	// CategoriesKey identifies the category list of a dataset.
	CategoriesKey(datasetVersion string) string

	// IdentifiersKey identifies the identifier list of a category view.
	IdentifiersKey(datasetVersion, category string) string

	// ResolveKey identifies a two-hop resolution.
	ResolveKey(datasetVersion string, opts ResolveKeyOpts) string
}

// ResolveKeyOpts holds the inputs that change a resolution result.
type ResolveKeyOpts struct {
	Category string `json:"category"`
	Scope    string `json:"scope"`
	ID       string `json:"id"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CategoriesKey implements Keyer.
func (DefaultKeyer) CategoriesKey(datasetVersion string) string {
	return hashKey("categories", datasetVersion)
}

// IdentifiersKey implements Keyer.
func (DefaultKeyer) IdentifiersKey(datasetVersion, category string) string {
	return hashKey("identifiers", datasetVersion, category)
}

// ResolveKey implements Keyer.
func (DefaultKeyer) ResolveKey(datasetVersion string, opts ResolveKeyOpts) string {
	return hashKey("resolve", datasetVersion, opts)
}

var _ Keyer = DefaultKeyer{}
