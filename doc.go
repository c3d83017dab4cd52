// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

// Package ztpcbor builds and parses the BlueCherry zero-touch-provisioning
// payload: a small CBOR record carrying a device identifier and an X.509
// certificate blob.
//
// The wire format lives in the cbor subpackage, a fixed-buffer CBOR engine
// with strict capacity accounting suited to constrained deployments. This
// domain package adds the [ProvisioningRecord] type with field limits and
// whole-record encode/decode helpers.
//
// Transport of the encoded payload, certificate validation, and the
// provisioning protocol itself are out of scope; this module only
// serializes and deserializes bytes.
package ztpcbor
