// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides slotdeck's on-disk encoding: CBOR with Core
// Deterministic Encoding (RFC 8949 §4.2), optionally wrapped in a zstd
// frame.
//
// JSON stays the format for everything exchanged with the backend and
// for the session file an operator may want to read. CBOR is used for
// local state the program writes for itself, currently the dashboard
// snapshot cache.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
//	sealed, err := codec.MarshalCompressed(value)
//	err = codec.UnmarshalCompressed(sealed, &value)
//
// Struct types encoded here use `cbor` tags. Types that also travel as
// JSON keep their `json` tags; fxamacker/cbor reads them as a fallback.
package codec
