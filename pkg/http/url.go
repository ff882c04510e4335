package http

import "strings"

// HostFromURL returns the host[:port] part of a URL of the form
// [scheme://]host[:port][/path]: everything between "://" (or the
// start of the string) and the first '/' (or the end).
func HostFromURL(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+len("://"):]
	}
	if i := strings.IndexByte(url, '/'); i >= 0 {
		url = url[:i]
	}
	return url
}

// PathFromURL returns the path part of a URL of the form
// [scheme://]host[:port][/path]: everything from the first '/' after
// the host, or "/" when the URL carries no path.
func PathFromURL(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+len("://"):]
	}
	if i := strings.IndexByte(url, '/'); i >= 0 {
		return url[i:]
	}
	return "/"
}
