package event

import "strings"

// Topic is a hierarchical event name using dot notation, for example
// "buffer.content.changed" or "ui.key.tab".
//
// Subscription patterns may contain wildcards:
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
type Topic string

const (
	wildcardOne = "*"
	wildcardAny = "**"
	separator   = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split on the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), separator)
}

// Child returns a child topic with the segment appended.
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return Topic(string(t) + separator + segment)
}

// IsPattern returns true if the topic contains wildcard segments.
func (t Topic) IsPattern() bool {
	return strings.Contains(string(t), wildcardOne)
}

// IsValid returns true if the topic is non-empty and contains no empty
// segments.
func (t Topic) IsValid() bool {
	s := string(t)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, separator) || strings.HasSuffix(s, separator) {
		return false
	}
	return !strings.Contains(s, separator+separator)
}

// Matches reports whether the topic matches the given pattern.
func (t Topic) Matches(pattern Topic) bool {
	if t == pattern {
		return true
	}
	return matchSegments(t.Segments(), pattern.Segments())
}

// matchSegments matches concrete topic segments against pattern segments.
func matchSegments(topic, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == wildcardAny {
			// "**" may consume any number of remaining segments.
			for skip := 0; skip <= len(topic); skip++ {
				if matchSegments(topic[skip:], pattern[1:]) {
					return true
				}
			}
			return false
		}
		if len(topic) == 0 {
			return false
		}
		if pattern[0] != wildcardOne && pattern[0] != topic[0] {
			return false
		}
		topic = topic[1:]
		pattern = pattern[1:]
	}
	return len(topic) == 0
}
