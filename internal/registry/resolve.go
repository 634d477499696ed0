package registry

import (
	"fmt"
	"strings"
	"unicode"
)

// ResolveOptions tune how a path or class name is matched against the tables.
// The zero value gives the default behaviour: case-insensitive module
// matching and Capitalized attribute normalization.
type ResolveOptions struct {
	// MatchCase requires exact case on both module segments and attribute
	// names, and disables attribute-name capitalization.
	MatchCase bool
	// AbsolutePath treats the requested string as a full dotted path instead
	// of a name to be matched by its final segment.
	AbsolutePath bool
}

// ResolutionError reports a failed class or module lookup. It always carries
// the path that was attempted; callers treat it as fatal for the operation
// that needed the class and never retry.
type ResolutionError struct {
	Path   string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %q: %s", e.Path, e.Reason)
}

// ResolveModule finds the registered module matching the requested path and
// returns its canonical dotted path. Without AbsolutePath the final dotted
// segment of the request is matched against the final segment of every
// registered module, case-insensitively unless MatchCase. The resolver never
// invents modules: a class can only be located if some startup step
// registered its module first. Results are memoized by the requested string.
func (r *Registry) ResolveModule(modulePath string, opts ResolveOptions) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveModuleLocked(modulePath, opts)
}

func (r *Registry) resolveModuleLocked(modulePath string, opts ResolveOptions) (string, error) {
	if canonical, ok := r.moduleCache[modulePath]; ok {
		return canonical, nil
	}

	if opts.AbsolutePath {
		if _, ok := r.modules[modulePath]; !ok {
			return "", &ResolutionError{Path: modulePath, Reason: "no module registered at that path"}
		}
		r.moduleCache[modulePath] = modulePath
		return modulePath, nil
	}

	want := lastSegment(modulePath)
	if !opts.MatchCase {
		want = strings.ToLower(want)
	}
	for registered := range r.modules {
		have := lastSegment(registered)
		if !opts.MatchCase {
			have = strings.ToLower(have)
		}
		if want == have {
			r.moduleCache[modulePath] = registered
			return registered, nil
		}
	}
	return "", &ResolutionError{Path: modulePath, Reason: "no registered module matches the final path segment"}
}

// ResolveAttribute finds a class by name within a module. When modulePath is
// empty the attribute name doubles as the module request. Unless MatchCase,
// the first rune of the attribute name is upper-cased before lookup;
// dynamically loaded class names are Capitalized by convention even when
// referenced in lowercase paths. Results, including manifest keyword aliases,
// are memoized by the requested name.
func (r *Registry) ResolveAttribute(attributeName, modulePath string, opts ResolveOptions) (*Attribute, error) {
	if attributeName == "" {
		return nil, &ResolutionError{Path: modulePath, Reason: "empty attribute name"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if attr, ok := r.attributeCache[attributeName]; ok {
		return attr, nil
	}

	request := modulePath
	if request == "" {
		request = attributeName
	}
	canonical, err := r.resolveModuleLocked(request, opts)
	if err != nil {
		return nil, err
	}

	lookup := attributeName
	if !opts.MatchCase {
		lookup = capitalize(lastSegment(lookup))
	}
	attr, ok := r.modules[canonical][lookup]
	if !ok {
		return nil, &ResolutionError{
			Path:   attributeName,
			Reason: fmt.Sprintf("module %q has no class %q", canonical, lookup),
		}
	}
	r.attributeCache[attributeName] = attr
	return attr, nil
}

// ResolveFromPath resolves a class from a single path string. The absolute
// form "pkg.path.Name" splits into module path and class name and forces
// exact case; otherwise the same string names both the module and the class.
func (r *Registry) ResolveFromPath(path string, opts ResolveOptions) (*Attribute, error) {
	attributeName := path
	modulePath := path
	if opts.AbsolutePath {
		idx := strings.LastIndex(path, ".")
		if idx <= 0 || idx == len(path)-1 {
			return nil, &ResolutionError{Path: path, Reason: "absolute path must be of the form module.Class"}
		}
		modulePath = path[:idx]
		attributeName = path[idx+1:]
		opts.MatchCase = true
	}
	return r.ResolveAttribute(attributeName, modulePath, opts)
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
