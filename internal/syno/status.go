package syno

// Status codes per the Download Station WebAPI. The official table is
// old and servers have grown codes since, hence the "unknown" fallback.
var statusLabels = map[uint64]string{
	1:   "waiting",
	2:   "downloading",
	3:   "paused",
	4:   "finishing",
	5:   "finished",
	6:   "hash_checking",
	7:   "preseeding",
	8:   "seeding",
	9:   "filehost_waiting",
	10:  "extracting",
	11:  "preprocessing",
	12:  "preprocesspass",
	13:  "downloaded",
	14:  "postprocessing",
	15:  "captcha_needed",
	101: "error",
	102: "broken_link",
	103: "dest_not_exists",
	104: "dest_deny",
	105: "disk_full",
	106: "quota_reached",
	107: "timeout",
	108: "exceed_max_fs_size",
	109: "exceed_max_temp_fs_size",
	110: "exceed_max_dest_fs_size",
	111: "name_too_long_encryption",
	112: "name_too_long",
	113: "duplicate_torrent",
	114: "file_does_not_exist",
	115: "premium_required",
	116: "not_supported_type",
	117: "ftp_encrypt_not_supported",
	118: "extract_failed",
	119: "extract_wrong_pasword",
	120: "extract_invalid_archive",
	121: "extract_quota_reached",
	122: "extract_disk_full",
	123: "invalid_torrent",
	124: "account_required",
	125: "try_it_later",
	126: "encryption_error",
	127: "missing_python_executable",
	128: "private_video",
	129: "extract_folder_does_not_exist",
	130: "nzb_missing_article",
	131: "duplicate_edonkey_link",
	132: "duplicate_dest_file",
	133: "archive_repair_failed",
	134: "invalid_account_password",
}

func statusLabel(code uint64) string {
	if label, ok := statusLabels[code]; ok {
		return label
	}
	return "unknown"
}
