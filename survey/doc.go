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

// Package survey implements the pipeline's only two-pass stage: it
// assigns an address to every label and instruction, then rewrites every
// symbolic reference left by the format stage into a concrete bit-field.
//
// Pass one walks the line stream once, tracking a current address that
// resets on each segment header and advances by an instruction's byte
// width (the sum of its parts' declared bit widths, divided by eight).
// Labels record the address in effect when they were encountered. Pass
// two walks the same stream again and, for each symbolic part, looks up
// its label, interprets the address as either an absolute ("imm") or
// PC-relative ("off") 32-bit value, and slices out the bit range the
// format stage recorded.
//
// Label and empty lines carry no information past this stage: they are
// consumed here and do not appear in Run's output.
package survey
