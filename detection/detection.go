// Package detection holds the default hyperparameter catalogs for the
// EfficientDet family of detection models, built on top of the hparams
// configuration tree.
package detection

import (
	"errors"
	"fmt"
	"strings"

	"dario.cat/mergo"

	"hparams"
)

// ErrUnknownModel indicates a model name with no catalog entry.
var ErrUnknownModel = errors.New("unknown model name")

// Default returns the baseline detection configuration. Per-model variants
// override a handful of these values; see Config.
func Default() *hparams.Config {
	return hparams.New(baseDefaults())
}

// Config returns the configuration for an EfficientDet model by name, e.g.
// "efficientdet-d0" or "efficientdet-lite2".
func Config(modelName string) (*hparams.Config, error) {
	params, ok := modelParams[modelName]
	if !ok {
		params, ok = liteModelParams[modelName]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, modelName)
	}

	c := Default()
	if err := c.Override(params, false); err != nil {
		return nil, fmt.Errorf("failed to apply %s parameters: %w", modelName, err)
	}
	return c, nil
}

// DetectionConfig resolves a detection model configuration, rejecting names
// outside the EfficientDet family.
func DetectionConfig(modelName string) (*hparams.Config, error) {
	if !strings.HasPrefix(modelName, "efficientdet") {
		return nil, fmt.Errorf("%w: model name must start with efficientdet, got %s", ErrUnknownModel, modelName)
	}
	return Config(modelName)
}

// Models returns the names of all cataloged model variants.
func Models() []string {
	names := make([]string, 0, len(modelParams)+len(liteModelParams))
	for name := range modelParams {
		names = append(names, name)
	}
	for name := range liteModelParams {
		names = append(names, name)
	}
	return names
}

// baseDefaults is the full default hyperparameter table shared by all
// detection variants.
func baseDefaults() map[string]any {
	return map[string]any{
		// model name
		"name": "efficientdet-d1",

		// activation type
		"act_type": "swish",

		// input preprocessing parameters
		"image_size":       640, // An integer or a string WxH such as 640x320.
		"target_size":      nil,
		"input_rand_hflip": true,
		"jitter_min":       0.1,
		"jitter_max":       2.0,
		"grid_mask":        false,
		"map_freq":         5, // AP eval frequency in epochs.

		// dataset specific parameters
		"num_classes":                90, // 1+ actual classes, 0 is reserved for background.
		"seg_num_classes":            3,  // segmentation classes
		"heads":                      []string{"object_detection"},
		"skip_crowd_during_training": true,
		"label_map":                  nil, // a map or a string of 'coco', 'voc', 'waymo'.
		"max_instances_per_image":    100, // Default to 100 for COCO.
		"regenerate_source_id":       false,

		// model architecture
		"min_level":      3,
		"max_level":      7,
		"num_scales":     3,
		"aspect_ratios":  []float64{1.0, 2.0, 0.5}, // ratio w/h, can be computed with k-mean per dataset.
		"anchor_scale":   4.0,
		"is_training_bn": true,

		// optimization
		"momentum":             0.9,
		"optimizer":            "sgd", // can be 'adam' or 'sgd'.
		"learning_rate":        0.08,  // 0.008 for adam.
		"lr_warmup_init":       0.008, // 0.0008 for adam.
		"lr_warmup_epoch":      1.0,
		"first_lr_drop_epoch":  200.0,
		"second_lr_drop_epoch": 250.0,
		"poly_lr_power":        0.9,
		"clip_gradients_norm":  10.0,
		"num_epochs":           300,
		"data_format":          "channels_last",
		"mean_rgb":             []float64{0.485 * 255, 0.456 * 255, 0.406 * 255},
		"stddev_rgb":           []float64{0.229 * 255, 0.224 * 255, 0.225 * 255},
		"scale_range":          false,
		"lr_decay_method":      "cosine",
		"moving_average_decay": 0.9998,

		// classification loss
		"label_smoothing": 0.0, // 0.1 is a good default
		"alpha":           0.25,
		"gamma":           1.5,

		// localization loss
		"delta":           0.1, // regularization parameter of huber loss.
		"box_loss_weight": 50.0,
		"iou_loss_type":   nil,
		"iou_loss_weight": 1.0,
		"boxloss_type":    "huber",

		// regularization l2 loss
		"weight_decay":    4e-5,
		"strategy":        nil, // 'tpu', 'gpus', nil
		"mixed_precision": false,
		"loss_scale":      nil,

		// detection heads
		"box_class_repeats":       3,
		"fpn_cell_repeats":        3,
		"fpn_num_filters":         88,
		"separable_conv":          true,
		"apply_bn_for_resampling": true,
		"conv_after_downsample":   false,
		"conv_bn_act_pattern":     false,
		"drop_remainder":          true,

		// post-processing nms
		"nms_configs": map[string]any{
			"method":          "gaussian",
			"iou_thresh":      nil, // use the default value based on method.
			"score_thresh":    0.0,
			"sigma":           nil,
			"pyfunc":          false,
			"max_nms_inputs":  0,
			"max_output_size": 100,
		},
		"tflite_max_detections": 100,

		// fpn version
		"fpn_name":          nil,
		"fpn_weight_method": nil,
		"fpn_config":        nil,

		// no stochastic depth in default
		"survival_prob": nil,

		"ckpt_var_scope":  nil,
		"skip_mismatch":   true, // skip loading pretrained weights if shape mismatches.
		"backbone_name":   "efficientnet-b1",
		"backbone_config": nil,
		"var_freeze_expr": nil,

		"use_keras_model":    true,
		"dataset_type":       nil,
		"positives_momentum": nil,
		"grad_checkpoint":    false,
		"verbose":            1,

		// uncertainty estimation
		"loss_attenuation":     false, // estimate box aleatoric uncertainty
		"clip_min_uncert":      0.01,
		"clip_max_uncert":      1024,
		"uncert_adjust_method": "l-norm", // [l-norm, n-flow, falsedec, sample]
		"decode_nsamples":      100,
		"mc_dropout":           false,
		"mc_dropoutrate":       0.0,
		"mc_classheadrate":     0.0,
		"mc_boxheadrate":       0.0,
		"mc_dropoutsamp":       10,

		// calibration
		"assign_gt_box":            "IoU",
		"enable_softmax":           false,
		"calibrate_classification": true,
		"calib_method_class":       "iso_percls",
		"calibrate_regression":     true,
		"calib_method_box":         "iso_perclscoo",

		// thresholding
		"thr_fpr_tpr":    0.95, // budget for thresholding
		"thr_cd":         true,
		"thr_iou_thrs":   []float64{0.5, 0.55, 0.6, 0.65, 0.7, 0.75},
		"thr_sel_uncert": "ENTALBOX",

		// augmentation
		"autoaugment_policy":  nil, // 'v0', 'randaug' or 'albu'
		"albumentations_mode": "optimal",
		"albumentations_path": "../configs/augmentation/",
		"albumentations_ops":  []string{"rain", "snow", "fog", "sat"},
		"consistency_ssl":     false,
		"infer_augment":       false,

		// training loop
		"early_stopping_patience": 0,
		"infer_draw_uncert":       true,
		"count_classes":           false,
		"save_freq":               1,
		"sample_images":           nil,
		"sample_images_freq":      nil,
		"save_train_images":       false,
	}
}

// modelParams are the per-variant overrides of the base defaults.
var modelParams = map[string]map[string]any{
	"efficientdet-d0": {
		"name":              "efficientdet-d0",
		"backbone_name":     "efficientnet-b0",
		"image_size":        512,
		"fpn_num_filters":   64,
		"fpn_cell_repeats":  3,
		"box_class_repeats": 3,
	},
	"efficientdet-d1": {
		"name":              "efficientdet-d1",
		"backbone_name":     "efficientnet-b1",
		"image_size":        640,
		"fpn_num_filters":   88,
		"fpn_cell_repeats":  4,
		"box_class_repeats": 3,
	},
	"efficientdet-d2": {
		"name":              "efficientdet-d2",
		"backbone_name":     "efficientnet-b2",
		"image_size":        768,
		"fpn_num_filters":   112,
		"fpn_cell_repeats":  5,
		"box_class_repeats": 3,
	},
	"efficientdet-d3": {
		"name":              "efficientdet-d3",
		"backbone_name":     "efficientnet-b3",
		"image_size":        896,
		"fpn_num_filters":   160,
		"fpn_cell_repeats":  6,
		"box_class_repeats": 4,
	},
	"efficientdet-d4": {
		"name":              "efficientdet-d4",
		"backbone_name":     "efficientnet-b4",
		"image_size":        1024,
		"fpn_num_filters":   224,
		"fpn_cell_repeats":  7,
		"box_class_repeats": 4,
	},
	"efficientdet-d5": {
		"name":              "efficientdet-d5",
		"backbone_name":     "efficientnet-b5",
		"image_size":        1280,
		"fpn_num_filters":   288,
		"fpn_cell_repeats":  7,
		"box_class_repeats": 4,
	},
	"efficientdet-d6": {
		"name":              "efficientdet-d6",
		"backbone_name":     "efficientnet-b6",
		"image_size":        1280,
		"fpn_num_filters":   384,
		"fpn_cell_repeats":  8,
		"box_class_repeats": 5,
		"fpn_weight_method": "sum", // Use unweighted sum for stability.
	},
	"efficientdet-d7": {
		"name":              "efficientdet-d7",
		"backbone_name":     "efficientnet-b6",
		"image_size":        1536,
		"fpn_num_filters":   384,
		"fpn_cell_repeats":  8,
		"box_class_repeats": 5,
		"anchor_scale":      5.0,
		"fpn_weight_method": "sum", // Use unweighted sum for stability.
	},
	"efficientdet-d7x": {
		"name":              "efficientdet-d7x",
		"backbone_name":     "efficientnet-b7",
		"image_size":        1536,
		"fpn_num_filters":   384,
		"fpn_cell_repeats":  8,
		"box_class_repeats": 5,
		"anchor_scale":      4.0,
		"max_level":         8,
		"fpn_weight_method": "sum", // Use unweighted sum for stability.
	},
}

// liteCommon holds the parameters shared by all lite variants, consistent
// with the EfficientNet-Lite backbones.
var liteCommon = map[string]any{
	"mean_rgb":          127.0,
	"stddev_rgb":        128.0,
	"act_type":          "relu6",
	"fpn_weight_method": "sum",
}

// liteModelParams are the per-variant overrides for the lite family, each
// completed with liteCommon.
var liteModelParams = map[string]map[string]any{
	"efficientdet-lite0": withLiteCommon(map[string]any{
		"name":              "efficientdet-lite0",
		"backbone_name":     "efficientnet-lite0",
		"image_size":        320,
		"fpn_num_filters":   64,
		"fpn_cell_repeats":  3,
		"box_class_repeats": 3,
		"anchor_scale":      3.0,
	}),
	"efficientdet-lite1": withLiteCommon(map[string]any{
		"name":              "efficientdet-lite1",
		"backbone_name":     "efficientnet-lite1",
		"image_size":        384,
		"fpn_num_filters":   88,
		"fpn_cell_repeats":  4,
		"box_class_repeats": 3,
		"anchor_scale":      3.0,
	}),
	"efficientdet-lite2": withLiteCommon(map[string]any{
		"name":              "efficientdet-lite2",
		"backbone_name":     "efficientnet-lite2",
		"image_size":        448,
		"fpn_num_filters":   112,
		"fpn_cell_repeats":  5,
		"box_class_repeats": 3,
		"anchor_scale":      3.0,
	}),
	"efficientdet-lite3": withLiteCommon(map[string]any{
		"name":              "efficientdet-lite3",
		"backbone_name":     "efficientnet-lite3",
		"image_size":        512,
		"fpn_num_filters":   160,
		"fpn_cell_repeats":  6,
		"box_class_repeats": 4,
	}),
	"efficientdet-lite3x": withLiteCommon(map[string]any{
		"name":              "efficientdet-lite3x",
		"backbone_name":     "efficientnet-lite3",
		"image_size":        640,
		"fpn_num_filters":   200,
		"fpn_cell_repeats":  6,
		"box_class_repeats": 4,
		"anchor_scale":      3.0,
	}),
	"efficientdet-lite4": withLiteCommon(map[string]any{
		"name":              "efficientdet-lite4",
		"backbone_name":     "efficientnet-lite4",
		"image_size":        640,
		"fpn_num_filters":   224,
		"fpn_cell_repeats":  7,
		"box_class_repeats": 4,
	}),
}

// withLiteCommon fills a lite parameter table with the shared lite values,
// never overriding a key the table sets itself.
func withLiteCommon(params map[string]any) map[string]any {
	if err := mergo.Merge(&params, liteCommon); err != nil {
		panic(fmt.Sprintf("lite parameter merge failed: %v", err))
	}
	return params
}
