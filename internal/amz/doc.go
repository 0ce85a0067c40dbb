// Package amz decodes AMZ containers into the XSPF playlist text they wrap.
//
// An AMZ container is base64 text wrapping a DES-CBC encrypted XML document. The key and
// initialisation vector are fixed for every container ever produced, so decoding needs no
// secrets from the caller:
//
//  1. base64-decode the container, ignoring embedded whitespace
//  2. drop any trailing partial cipher block
//  3. DES-CBC decrypt with the fixed key and IV
//  4. trim the zero padding left behind by the block size ([TrimPadding])
//
// The format carries no integrity check. Decoding a corrupted or foreign file succeeds and
// yields garbage text; the playlist parser is what notices.
//
// [Encrypt] runs the pipeline in reverse and is used to build containers from plain XSPF.
package amz
