package convert

import (
	"strings"

	"github.com/cpuguy83/vcalconv/internal/model"
)

const cidScheme = "CID:"

// EncodeAttachment builds the VALARM attachment for an AALARM's audio content.
// Inline data wins over a content ID, which wins over a URI.
func EncodeAttachment(a model.AudioAlarm) model.Attachment {
	var contentType string
	if typ := a.Type(); typ != "" {
		contentType = "audio/" + strings.ToLower(typ)
	}

	if a.Data != nil {
		return model.InlineAttachment(contentType, append([]byte(nil), a.Data...))
	}
	if a.ContentID != "" {
		return model.URIAttachment(contentType, cidScheme+a.ContentID)
	}
	return model.URIAttachment(contentType, a.URI)
}

// DecodeAttachment copies an attachment into the audio content fields of dst.
// The content type is stored verbatim as the TYPE parameter.
func DecodeAttachment(att model.Attachment, dst *model.AudioAlarm) {
	dst.Params.Set(model.ParamType, att.ContentType)

	switch {
	case att.Data != nil:
		dst.Data = append([]byte(nil), att.Data...)
	case att.URI != "":
		if len(att.URI) >= len(cidScheme) && strings.EqualFold(att.URI[:len(cidScheme)], cidScheme) {
			dst.ContentID = att.URI[len(cidScheme):]
		} else {
			dst.URI = att.URI
		}
	}
}
