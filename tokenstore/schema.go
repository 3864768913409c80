package tokenstore

// Schema is the typed storage-key layout. It is the single owner of key name
// literals; consumers compose keys through its methods only.
type Schema struct {
	Prefix          string
	AccessTokenKey  string
	RefreshTokenKey string
}

// DefaultSchema returns the key layout of the 5ive Trackr webapp: the
// historical auth_token / refresh_token keys under a short app prefix.
func DefaultSchema() Schema {
	return Schema{
		Prefix:          "5t",
		AccessTokenKey:  "auth_token",
		RefreshTokenKey: "refresh_token",
	}
}

// Normalize fills empty fields from [DefaultSchema] so a partially specified
// schema stays usable.
func (s Schema) Normalize() Schema {
	def := DefaultSchema()
	if s.AccessTokenKey == "" {
		s.AccessTokenKey = def.AccessTokenKey
	}
	if s.RefreshTokenKey == "" {
		s.RefreshTokenKey = def.RefreshTokenKey
	}
	return s
}

// AccessKey returns the fully qualified access-token key.
func (s Schema) AccessKey() string {
	return s.qualify(s.AccessTokenKey)
}

// RefreshKey returns the fully qualified refresh-token key.
func (s Schema) RefreshKey() string {
	return s.qualify(s.RefreshTokenKey)
}

// EventChannel returns the pub/sub channel carrying store change events.
func (s Schema) EventChannel() string {
	return s.qualify("storage")
}

func (s Schema) qualify(key string) string {
	if s.Prefix == "" {
		return key
	}
	return s.Prefix + ":" + key
}
