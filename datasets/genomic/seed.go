package genomic

// seedFASTA is the dummy fallback used when the fine-tuning dataset is
// missing. Fragments of the human BRCA1 5' region, long enough to fill a
// few training batches.
const seedFASTA = `>seed_brca1_frag1
GATTACAGATTACAGGCTCTTAGCGGTACCTACCTGGTAAGCGATCGATCGGCTAGCTAGGATCCATGGC
TAGCTAGGCTAGCATCGATCGTAGCTAGCTAGCATGCATCGATCGATCGTAGCTAGCTAACGTACGTAGC
>seed_brca1_frag2
ATGGATTTATCTGCTCTTCGCGTTGAAGAAGTACAAAATGTCATTAATGCTATGCAGAAAATCTTAGAGT
GTCCCATCTGTCTGGAGTTGATCAAGGAACCTGTCTCCACAAAGTGTGACCACATATTTTGCAAATTTTG
>seed_brca1_frag3
CATGCTGAAACTTCTCAACCAGAAGAAAGGGCCTTCACAGTGTCCTTTATGTAAGAATGATATAACCAAA
AGGAGCCTACAAGAAAGTACGAGATTTAGTCAACTTGTTGAAGAGCTATTGAAAATCATTTGTGCTTTTC
>seed_brca1_frag4
AGCTTGACACAGGTTTGGAGTATGCAAACAGCTATAATTTTGCAAAAAAGGAAAATAACTCTCCTGAACA
TCTAAAAGATGAAGTTTCTATCATCCAAAGTATGGGCTACAGAAACCGTGCCAAAAGACTTCTACAGAGT
>seed_brca1_frag5
GAACCCGAAAATCCTTCCTTGCAGGAAACCAGTCTCAGTGTCCAACTCTCTAACCTTGGAACTGTGAGAA
CTCTGAGGACAAAGCAGCGGATACAACCTCAAAAGACGTCTGTCTACATTGAATTGGGATCTGATTCTTC
`
