package params

// GuidanceTable maps tier to context key to guidance text.
type GuidanceTable map[Tier]map[string]string

// ParseTable converts the string-keyed configuration form into a GuidanceTable.
func ParseTable(raw map[string]map[string]string) (GuidanceTable, error) {
	table := make(GuidanceTable, len(raw))
	for name, entries := range raw {
		tier, err := ParseTier(name)
		if err != nil {
			return nil, err
		}
		copied := make(map[string]string, len(entries))
		for key, text := range entries {
			copied[key] = text
		}
		table[tier] = copied
	}
	return table, nil
}
