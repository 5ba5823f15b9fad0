package bank

// Conflicts reports whether candidate can be safely inserted alongside the
// keys of every id already in ids. Mixing [KindUnique] with any gendered
// or localized variant under the same name is always a conflict; within a
// single kind, an exact (name, …) duplicate is a conflict.
func Conflicts(ids map[Id]struct{}, candidate Key) bool {
	for id := range ids {
		if conflictsWith(id.Key, candidate) {
			return true
		}
	}
	return false
}

func conflictsWith(existing, candidate Key) bool {
	switch candidate.Kind {
	case KindUnique:
		return existing.Name == candidate.Name
	case KindGender:
		if existing.Name != candidate.Name {
			return false
		}
		switch existing.Kind {
		case KindLocale, KindBoth, KindUnique:
			return true
		case KindGender:
			return existing.Gender == candidate.Gender
		}
	case KindLocale:
		if existing.Name != candidate.Name {
			return false
		}
		switch existing.Kind {
		case KindUnique, KindGender, KindBoth:
			return true
		case KindLocale:
			return existing.Locale == candidate.Locale
		}
	case KindBoth:
		if existing.Name != candidate.Name {
			return false
		}
		switch existing.Kind {
		case KindUnique, KindGender, KindLocale:
			return true
		case KindBoth:
			return existing.Locale == candidate.Locale && existing.Gender == candidate.Gender
		}
	}
	return false
}
