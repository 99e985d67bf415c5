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

// Package elfimage implements the pipeline's final stage: it collects a
// byte-tagged IL stream into named, addressed segments and emits them as
// an ELF32 little-endian RISC-V executable.
//
// Collect walks the stream produced by wordpack, starting a new Segment
// at each segment header and appending byte parts to the segment in
// effect. Write then lays out an ELF header, one PT_LOAD program header
// per segment, and the segment contents themselves, each segment's file
// offset page-aligned to match its virtual address. The entry point is
// the address of the segment named "code".
package elfimage
