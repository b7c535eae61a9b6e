// SPDX-License-Identifier: EPL-2.0

//go:build opus

package formats

import (
	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/formats/opus"
)

func init() {
	optional = append(optional, func(r *audio.Registry) {
		r.RegisterSniffer(Opus, opus.Decoder{}, opus.Sniff)
	})
}
