package s3

// Buckets every platform deployment needs. Names are shared with the backend;
// changing one here without migrating stored objects breaks file URLs.
const (
	BucketUserPhotos       = "user-photos"
	BucketVerificationDocs = "verification-docs"
	BucketPostMedia        = "post-media"
	BucketDonationReceipts = "donation-receipts"
	BucketChatAttachments  = "chat-attachments"
)

// RequiredBuckets returns the full bucket set in provisioning order.
func RequiredBuckets() []string {
	return []string{
		BucketUserPhotos,
		BucketVerificationDocs,
		BucketPostMedia,
		BucketDonationReceipts,
		BucketChatAttachments,
	}
}
