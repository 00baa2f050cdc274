package encryption

import (
	"bytes"
	"fmt"

	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	gcmpb "github.com/tink-crypto/tink-go/v2/proto/aes_gcm_go_proto"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"
	"github.com/tink-crypto/tink-go/v2/tink"

	"google.golang.org/protobuf/proto"
)

const aesGcmTypeURL = "type.googleapis.com/google.crypto.tink.AesGcmKey"

// encryptGCM seals plaintext with AES-256-GCM. The envelope header is written first
// and bound as associated data.
func encryptGCM(key, plaintext []byte) ([]byte, error) {
	primitive, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	header := newEnvelopeHeader(ModeGCM)

	sealed, err := primitive.Encrypt(plaintext, header)
	if err != nil {
		return nil, fmt.Errorf("encrypting content: %w", err)
	}

	return append(header, sealed...), nil
}

// decryptGCM opens an enveloped AES-256-GCM ciphertext.
func decryptGCM(key, data []byte) ([]byte, error) {
	primitive, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	header := data[:envelopeHeaderSize]

	plaintext, err := primitive.Decrypt(data[envelopeHeaderSize:], header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTamperedData, err)
	}

	return plaintext, nil
}

func newAEAD(key []byte) (tink.AEAD, error) {
	if len(key) != ContentKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), ContentKeySize)
	}

	kh, err := newAEADKeyHandle(key)
	if err != nil {
		return nil, fmt.Errorf("creating keyset handle: %w", err)
	}

	primitive, err := aead.New(kh)
	if err != nil {
		return nil, fmt.Errorf("creating AEAD: %w", err)
	}

	return primitive, nil
}

// newAEADKeyHandle creates a Tink keyset handle for AES-GCM from raw key bytes.
// The key uses the RAW output prefix so ciphertexts are nonce || ciphertext || tag.
func newAEADKeyHandle(key []byte) (*keyset.Handle, error) {
	serializedKey, err := proto.Marshal(&gcmpb.AesGcmKey{
		Version:  0,
		KeyValue: key,
	})
	if err != nil {
		return nil, fmt.Errorf("serializing AesGcmKey: %w", err)
	}

	keySet := &tinkpb.Keyset{
		PrimaryKeyId: 1,
		Key: []*tinkpb.Keyset_Key{
			{
				KeyData: &tinkpb.KeyData{
					TypeUrl:         aesGcmTypeURL,
					Value:           serializedKey,
					KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
				},
				Status:           tinkpb.KeyStatusType_ENABLED,
				KeyId:            1,
				OutputPrefixType: tinkpb.OutputPrefixType_RAW,
			},
		},
	}

	serializedKeyset, err := proto.Marshal(keySet)
	if err != nil {
		return nil, fmt.Errorf("serializing keyset: %w", err)
	}

	handle, err := insecurecleartextkeyset.Read(keyset.NewBinaryReader(bytes.NewReader(serializedKeyset)))
	if err != nil {
		return nil, fmt.Errorf("reading keyset: %w", err)
	}

	return handle, nil
}
