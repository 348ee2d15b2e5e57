// Package trainer provides the reward fine-tuning loop: a fixed epoch budget
// over tokenized FASTA batches, optimizing LoRA adapter and projection-head
// weights only. No checkpointing, no validation split, no early stopping;
// faults propagate to the caller.
package trainer
