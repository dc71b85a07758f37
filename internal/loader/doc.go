// Package loader reads scene files into section specs.
//
// A scene file declares an ordered list of sections, each with its lines and
// the conditions that gate it. Three encodings are accepted:
//
//   - .json and .yaml/.yml: a top-level list of sections
//   - .cue: a "sections" field holding the list
//
// Every string is NFC-normalized on load so that scene names, event names and
// condition arguments compare byte-for-byte with the keys events log.
package loader
