package uri

// Name rules keep the two string forms unambiguous: names start with a
// letter, so an all-digit segment always means a numeric id.

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameChar(c byte, allowDot bool) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '-' || (allowDot && c == '.')
}

func validName(s string, allowDot bool) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i], allowDot) {
			return false
		}
	}
	return s[len(s)-1] != '.'
}

func validDeviceName(s string) bool { return validName(s, false) }

func validDomainName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i], true) {
			return false
		}
	}
	return s != "" && s[0] != '.' && s[len(s)-1] != '.'
}

func validEntityName(s string) bool { return validName(s, true) }

func validResourceName(s string) bool { return validName(s, false) }

func validMessageName(s string) bool { return validName(s, false) }

// validInstance allows a leading digit ("1", "front_left") and dots.
func validInstance(s string) bool {
	if s == "" || s == "*" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i], true) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
