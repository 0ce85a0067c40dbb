// Package xspf extracts track records from XSPF playlist text.
//
// Decrypted AMZ playlists come from a variety of generators and are not always well-formed,
// so parsing never fails: [Build] produces a best-effort element tree and stops quietly at
// the first unrecoverable syntax error, keeping everything read up to that point. Mismatched
// end tags close the elements they skip over, unknown entities are kept as literal text,
// and legacy charsets declared in the prolog are decoded via golang.org/x/net/html/charset.
//
// Elements are matched by local name only. The XSPF namespace, and any other, is ignored.
//
// [Parse] walks playlist > trackList > track in document order. Within a track, the
// location, title, creator, album, trackNum and duration children are read; anything else
// is skipped. Numeric fields use a leading-integer scan, so "7 of 12" is 7 and "abc" is 0.
package xspf
