package domain

// KeyPrefix namespaces all geoquery keys in the store.
const KeyPrefix = "geoquery:"
