package resource

// BundleBuilderOption is a functional option applied to a bundle during construction via NewBundle.
type BundleBuilderOption func(*bundle)

// WithLabel sets the prefix used for every debug label the bundle allocates.
//
// Parameters:
//   - label: the label prefix
//
// Returns:
//   - BundleBuilderOption: a function that applies the label to a bundle
func WithLabel(label string) BundleBuilderOption {
	return func(b *bundle) {
		b.label = label
	}
}
