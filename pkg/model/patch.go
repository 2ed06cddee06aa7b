// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package model

// The helpers below implement the merge rule shared by every patchable
// entity: a field is copied only when it was supplied, is not falsy, and
// differs from the current value. Falsy incoming values (empty string,
// false, empty payload) are never applied.

func applyString(dst *string, in *string) {
	if in == nil || *in == "" || *in == *dst {
		return
	}
	*dst = *in
}

func applyBool(dst *bool, in *bool) {
	if in == nil || !*in || *in == *dst {
		return
	}
	*dst = *in
}

func applyRaw(dst *[]byte, in []byte) {
	if len(in) == 0 || string(in) == string(*dst) {
		return
	}
	*dst = in
}
