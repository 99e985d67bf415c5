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

// Package wordpack implements the third pipeline stage: it concatenates
// a fully resolved instruction's bit-field parts into one 32-bit word and
// splits that word little-endian into four byte parts. Non-instruction
// lines (segment headers) pass through unchanged.
//
// The resulting byte parts carry no tag at all — width is implicit from
// the stage's position in the pipeline, not re-declared per byte.
package wordpack
