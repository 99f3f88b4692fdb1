package pgrepo

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// limitArg переводит лимит в аргумент LIMIT. Нулевой лимит означает выборку без ограничений.
func limitArg(limit uint) *int64 {
	if limit == 0 {
		return nil
	}
	v := int64(limit) //nolint:gosec
	return &v
}
