/*
Package aei implements AEI (Abyss Engine Image) container read/write.

An AEI file stores one texture atlas: a header with the compression format,
atlas size and the bounding boxes of every texture, followed by a single
compressed (or raw RGBA8) pixel payload, an always empty symbol-group
section and an optional quality byte.

Pixel payloads are produced by codecs looked up in a Registry by format,
direction and host platform. DefaultRegistry ships a raw RGBA8 codec and a
DXT1/DXT3/DXT5 codec backed by github.com/woozymasta/bcn; other formats
(ATC, PVRTC, ETC) need a codec registered by the caller.

Mipmapped payloads and symbol groups are detected and rejected.
*/
package aei
