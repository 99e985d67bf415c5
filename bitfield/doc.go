// This file is part of rv32pipe.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bitfield implements checked fixed-width bit-field arithmetic:
// range-checked signed and unsigned construction, low-to-high concatenation
// and inclusive bit-range slicing.
//
// A Field is a (value, width) pair where value is guaranteed to fit in
// width bits. Fields compose with Concat, which lays them out low bit
// first, and decompose with Slice, which extracts an inclusive bit range.
//
// Symbolic fields, i.e. references to a label whose address is not yet
// known, are represented separately by Ref (and Value, which holds either
// a Field or a Ref); SliceOrRef is the bridge that lets a symbolic
// reference be sliced the same way a concrete Field would be, before the
// address is known. The survey package later resolves each Ref.
package bitfield
